package admin

import (
	"testing"

	"github.com/cargoline/cargoline-api/internal/domain/sysconfig"
)

func TestValueMatchesType(t *testing.T) {
	tests := []struct {
		value string
		typ   sysconfig.DataType
		want  bool
	}{
		{"anything", sysconfig.TypeString, true},
		{"100", sysconfig.TypeNumber, true},
		{"-5", sysconfig.TypeNumber, true},
		{"12.5", sysconfig.TypeNumber, false},
		{"abc", sysconfig.TypeNumber, false},
		{"true", sysconfig.TypeBoolean, true},
		{"yes", sysconfig.TypeBoolean, false},
		{`{"5":50,"10":110}`, sysconfig.TypeJSON, true},
		{`{"broken"`, sysconfig.TypeJSON, false},
		{"100", sysconfig.DataType("blob"), false},
	}

	for _, tt := range tests {
		if got := valueMatchesType(tt.value, tt.typ); got != tt.want {
			t.Errorf("valueMatchesType(%q, %q) = %v, want %v", tt.value, tt.typ, got, tt.want)
		}
	}
}
