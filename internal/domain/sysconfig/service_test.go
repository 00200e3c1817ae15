package sysconfig

import (
	"context"
	"errors"
	"testing"
)

type memoryRepo struct {
	entries map[string]*Entry
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{entries: make(map[string]*Entry)}
}

func (m *memoryRepo) Get(ctx context.Context, key string) (*Entry, error) {
	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrConfigNotFound
	}
	return entry, nil
}

func (m *memoryRepo) Set(ctx context.Context, entry *Entry) error {
	m.entries[entry.Key] = entry
	return nil
}

func (m *memoryRepo) List(ctx context.Context) ([]Entry, error) {
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out, nil
}

func TestGetInt(t *testing.T) {
	repo := newMemoryRepo()
	repo.entries["post_costs.load"] = &Entry{Key: "post_costs.load", Value: "10", DataType: TypeNumber}
	svc := NewService(repo, nil, 0)

	cost, err := svc.GetInt(context.Background(), "post_costs.load")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != 10 {
		t.Fatalf("expected 10, got %d", cost)
	}
}

func TestGetIntMissingKey(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, 0)

	_, err := svc.GetInt(context.Background(), "post_costs.load")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestGetIntTypeMismatch(t *testing.T) {
	repo := newMemoryRepo()
	repo.entries["banner_text"] = &Entry{Key: "banner_text", Value: "hello", DataType: TypeString}
	repo.entries["bad_number"] = &Entry{Key: "bad_number", Value: "ten", DataType: TypeNumber}
	svc := NewService(repo, nil, 0)

	if _, err := svc.GetInt(context.Background(), "banner_text"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch for string entry, got %v", err)
	}
	if _, err := svc.GetInt(context.Background(), "bad_number"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch for unparsable number, got %v", err)
	}
}

func TestGetBool(t *testing.T) {
	repo := newMemoryRepo()
	repo.entries["registration_open"] = &Entry{Key: "registration_open", Value: "true", DataType: TypeBoolean}
	svc := NewService(repo, nil, 0)

	open, err := svc.GetBool(context.Background(), "registration_open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !open {
		t.Fatal("expected true")
	}
}

func TestGetIntMap(t *testing.T) {
	repo := newMemoryRepo()
	repo.entries[KeyRechargeRates] = &Entry{
		Key:      KeyRechargeRates,
		Value:    `{"5": 50, "10": 110, "20": 240}`,
		DataType: TypeJSON,
	}
	svc := NewService(repo, nil, 0)

	rates, err := svc.GetIntMap(context.Background(), KeyRechargeRates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates["10"] != 110 {
		t.Fatalf("expected 110 credits for price 10, got %d", rates["10"])
	}
}

func TestGetIntMapMismatch(t *testing.T) {
	repo := newMemoryRepo()
	repo.entries[KeyRechargeRates] = &Entry{Key: KeyRechargeRates, Value: "42", DataType: TypeNumber}
	svc := NewService(repo, nil, 0)

	if _, err := svc.GetIntMap(context.Background(), KeyRechargeRates); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestPremiumCostKey(t *testing.T) {
	cases := []struct {
		premiumType string
		hours       int
		want        string
	}{
		{"top", 24, "premium_costs.top_24h"},
		{"top", 72, "premium_costs.top_72h"},
		{"top", 168, "premium_costs.top_168h"},
		{"highlight", 24, "premium_costs.highlight"},
		{"urgent", 0, "premium_costs.urgent"},
	}

	for _, c := range cases {
		if got := PremiumCostKey(c.premiumType, c.hours); got != c.want {
			t.Errorf("PremiumCostKey(%q, %d) = %q, want %q", c.premiumType, c.hours, got, c.want)
		}
	}
}
