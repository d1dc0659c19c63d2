// Package seed fills an empty stockroom with generated sample data for local
// development. Every record goes through the entity stores, so the domain
// constructors validate it exactly as they would a real write.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// ErrNotEmpty is returned when the target already holds users and Force is off
var ErrNotEmpty = errors.New("seed: database already has data")

// Options controls how much data is generated
type Options struct {
	// Seed makes a run reproducible; 0 picks a random seed
	Seed               uint64
	Users              int
	Categories         int
	Definitions        int
	ItemsPerDefinition int
	LogsPerItem        int
	// History is how far back log timestamps reach from Now
	History time.Duration
	Now     time.Time
	// Force seeds even when users already exist
	Force bool
}

// DefaultOptions returns a small data set that still spans several pages
func DefaultOptions() Options {
	return Options{
		Users:              8,
		Categories:         5,
		Definitions:        24,
		ItemsPerDefinition: 3,
		LogsPerItem:        4,
		History:            90 * 24 * time.Hour,
	}
}

// Summary counts the records a run created
type Summary struct {
	Users       int
	Categories  int
	Attributes  int
	Definitions int
	Items       int
	Logs        int
}

// Seeder generates sample records into a set of stores
type Seeder struct {
	stores inventory.Stores
	logger *zap.Logger
}

// New creates a Seeder
func New(stores inventory.Stores, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{stores: stores, logger: logger}
}

// run carries the generator and the records created so far
type run struct {
	opts  Options
	faker *gofakeit.Faker

	users       []inventory.User
	categories  []inventory.Category
	attributes  []inventory.Attribute
	definitions []inventory.ItemDefinition
	items       []inventory.InventoryItem
	logs        int
}

// Seed generates users, categories, attributes, item definitions, items and
// their log history
func (s *Seeder) Seed(ctx context.Context, opts Options) (*Summary, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if !opts.Force {
		existing, err := s.stores.Users.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, ErrNotEmpty
		}
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}

	r := &run{opts: opts, faker: gofakeit.New(opts.Seed)}
	steps := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{"users", s.seedUsers},
		{"categories", s.seedCategories},
		{"attributes", s.seedAttributes},
		{"definitions", s.seedDefinitions},
		{"items", s.seedItems},
		{"logs", s.seedLogs},
	}
	for _, step := range steps {
		if err := step.fn(ctx, r); err != nil {
			return nil, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	sum := &Summary{
		Users:       len(r.users),
		Categories:  len(r.categories),
		Attributes:  len(r.attributes),
		Definitions: len(r.definitions),
		Items:       len(r.items),
		Logs:        r.logs,
	}
	s.logger.Info("Seed data created",
		zap.Uint64("seed", opts.Seed),
		zap.Int("users", sum.Users),
		zap.Int("categories", sum.Categories),
		zap.Int("attributes", sum.Attributes),
		zap.Int("definitions", sum.Definitions),
		zap.Int("items", sum.Items),
		zap.Int("logs", sum.Logs),
	)
	return sum, nil
}

func validate(opts Options) error {
	switch {
	case opts.Users < 1:
		return errors.New("seed: at least one user is required")
	case opts.Categories < 0, opts.Definitions < 0, opts.ItemsPerDefinition < 0, opts.LogsPerItem < 0:
		return errors.New("seed: counts cannot be negative")
	case opts.LogsPerItem > 0 && opts.History <= 0:
		return errors.New("seed: history must be positive when logs are generated")
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, r *run) error {
	for i := 0; i < r.opts.Users; i++ {
		p := r.faker.Person()
		u, err := inventory.NewUser(p.FirstName+" "+p.LastName, p.Contact.Email, "")
		if err != nil {
			return err
		}
		if err := s.stores.Users.Create(ctx, u); err != nil {
			return err
		}
		r.users = append(r.users, *u)
	}
	return nil
}

func (s *Seeder) seedCategories(ctx context.Context, r *run) error {
	names := uniqueNames(r.opts.Categories, r.faker.ProductCategory)
	for _, name := range names {
		c, err := inventory.NewCategory(name)
		if err != nil {
			return err
		}
		if err := s.stores.Categories.Create(ctx, c); err != nil {
			return err
		}
		r.categories = append(r.categories, *c)
	}
	return nil
}

// attributeCatalog covers each value domain at least once
var attributeCatalog = []struct {
	name   string
	domain inventory.ValueDomain
}{
	{"Size", inventory.OptionsDomain{Options: []string{"S", "M", "L", "XL"}}},
	{"Color", inventory.TextDomain{}},
	{"Weight (kg)", inventory.NumberDomain{}},
	{"Material", inventory.TextDomain{}},
	{"Condition", inventory.OptionsDomain{Options: []string{"New", "Used", "Refurbished"}}},
}

func (s *Seeder) seedAttributes(ctx context.Context, r *run) error {
	for _, entry := range attributeCatalog {
		a, err := inventory.NewAttribute(entry.name, r.faker.HexColor(), entry.domain)
		if err != nil {
			return err
		}
		if err := s.stores.Attributes.Create(ctx, a); err != nil {
			return err
		}
		r.attributes = append(r.attributes, *a)
	}
	return nil
}

func (s *Seeder) seedDefinitions(ctx context.Context, r *run) error {
	f := r.faker
	for _, name := range uniqueNames(r.opts.Definitions, f.ProductName) {
		critical := f.Number(0, 5)
		opts := inventory.DefinitionOptions{
			AttributeIDs:           r.pickAttributes(),
			Internal:               f.Number(1, 5) == 1,
			CriticalStockThreshold: critical,
			LowStockThreshold:      critical + f.Number(0, 10),
		}
		// Some definitions stay uncategorized
		if len(r.categories) > 0 && f.Number(1, 6) > 1 {
			opts.CategoryID = &r.categories[f.IntN(len(r.categories))].ID
		}

		d, err := inventory.NewItemDefinition(name, opts)
		if err != nil {
			return err
		}
		if err := s.stores.Definitions.Create(ctx, d); err != nil {
			return err
		}
		r.definitions = append(r.definitions, *d)
	}
	return nil
}

func (s *Seeder) seedItems(ctx context.Context, r *run) error {
	f := r.faker
	for i := range r.definitions {
		def := &r.definitions[i]
		for n := 0; n < r.opts.ItemsPerDefinition; n++ {
			values, err := r.attributeValues(def)
			if err != nil {
				return err
			}
			var assignee *uuid.UUID
			if f.Bool() {
				assignee = &r.users[f.IntN(len(r.users))].ID
			}

			item, err := inventory.NewInventoryItem(def, f.Number(0, 50), values, assignee)
			if err != nil {
				return err
			}
			if err := s.stores.Items.Create(ctx, item); err != nil {
				return err
			}
			r.items = append(r.items, *item)
		}
	}
	return nil
}

func (s *Seeder) seedLogs(ctx context.Context, r *run) error {
	f := r.faker
	from := r.opts.Now.Add(-r.opts.History)
	for i := range r.items {
		for n := 0; n < r.opts.LogsPerItem; n++ {
			delta := f.Number(1, 10)
			if f.Bool() {
				delta = -delta
			}
			staff := r.users[f.IntN(len(r.users))].ID
			at := f.DateRange(from, r.opts.Now)

			entry, err := inventory.NewLogEntry(staff, r.items[i].ID, delta, at)
			if err != nil {
				return err
			}
			if err := s.stores.Logs.Create(ctx, entry); err != nil {
				return err
			}
			r.logs++
		}
	}
	return nil
}

// pickAttributes returns a random subset of the seeded attributes
func (r *run) pickAttributes() []uuid.UUID {
	if len(r.attributes) == 0 {
		return nil
	}
	idx := make([]int, len(r.attributes))
	for i := range idx {
		idx[i] = i
	}
	r.faker.ShuffleInts(idx)

	ids := make([]uuid.UUID, 0, len(idx))
	for _, i := range idx[:r.faker.Number(0, len(idx))] {
		ids = append(ids, r.attributes[i].ID)
	}
	return ids
}

// attributeValues generates a value for every attribute the definition lists
// and checks it against the attribute's domain
func (r *run) attributeValues(def *inventory.ItemDefinition) ([]inventory.AttributeValue, error) {
	values := make([]inventory.AttributeValue, 0, len(def.AttributeIDs))
	for _, id := range def.AttributeIDs {
		attr := r.attribute(id)
		if attr == nil {
			continue
		}
		value := r.valueFor(attr)
		if err := attr.Domain.Validate(value); err != nil {
			return nil, err
		}
		values = append(values, inventory.AttributeValue{AttributeID: id, Value: value})
	}
	return values, nil
}

func (r *run) attribute(id uuid.UUID) *inventory.Attribute {
	for i := range r.attributes {
		if r.attributes[i].ID == id {
			return &r.attributes[i]
		}
	}
	return nil
}

func (r *run) valueFor(attr *inventory.Attribute) string {
	f := r.faker
	switch d := attr.Domain.(type) {
	case inventory.OptionsDomain:
		return f.RandomString(d.Options)
	case inventory.NumberDomain:
		return strconv.FormatFloat(f.Float64Range(0.1, 40), 'f', 1, 64)
	}
	if attr.Name == "Material" {
		return f.ProductMaterial()
	}
	return f.SafeColor()
}

// uniqueNames draws n distinct names, numbering repeats once the generator
// starts returning duplicates
func uniqueNames(n int, gen func() string) []string {
	seen := make(map[string]bool, n)
	names := make([]string, 0, n)
	for attempts := 0; len(names) < n; attempts++ {
		name := gen()
		if seen[name] {
			if attempts < 4*n {
				continue
			}
			name = fmt.Sprintf("%s %d", name, len(names)+1)
			if seen[name] {
				continue
			}
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
