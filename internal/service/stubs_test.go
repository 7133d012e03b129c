package service_test

// In-memory repository stubs. All transactional methods accept a nil *gorm.DB:
// runTx calls fn(nil) when the repository reports no database, so the whole
// service layer is exercised without Postgres. Mutation paths are guarded by
// mutexes so tests can run orders concurrently, the way Postgres serializes
// the real repositories.

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"brigade/internal/costing"
	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Ingredients ──────────────────────────────────────────────────────────────

type stubIngredientRepo struct {
	mu          sync.Mutex
	ingredients map[uuid.UUID]*model.Ingredient
}

func newStubIngredientRepo() *stubIngredientRepo {
	return &stubIngredientRepo{ingredients: make(map[uuid.UUID]*model.Ingredient)}
}

func (r *stubIngredientRepo) add(ing *model.Ingredient) *model.Ingredient {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ing.ID == uuid.Nil {
		ing.ID = uuid.New()
	}
	r.ingredients[ing.ID] = ing
	return ing
}

// all returns a locked copy of every ingredient, for snapshot rebuilds.
func (r *stubIngredientRepo) all() []model.Ingredient {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Ingredient, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		out = append(out, *ing)
	}
	return out
}

func (r *stubIngredientRepo) Create(_ context.Context, ing *model.Ingredient) error {
	r.add(ing)
	return nil
}

func (r *stubIngredientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ingredient, error) {
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return ing, nil
}

func (r *stubIngredientRepo) FindByNames(_ context.Context, names []string) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, ing := range r.ingredients {
		for _, n := range names {
			if strings.EqualFold(ing.Name, strings.TrimSpace(n)) {
				out = append(out, *ing)
			}
		}
	}
	return out, nil
}

func (r *stubIngredientRepo) List(_ context.Context, _ dto.IngredientFilter) ([]model.Ingredient, int64, error) {
	var out []model.Ingredient
	for _, ing := range r.ingredients {
		out = append(out, *ing)
	}
	return out, int64(len(out)), nil
}

func (r *stubIngredientRepo) ListBelowThreshold(_ context.Context) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, ing := range r.ingredients {
		if ing.LowStockThreshold > 0 && ing.StockQuantity <= ing.LowStockThreshold {
			out = append(out, *ing)
		}
	}
	return out, nil
}

func (r *stubIngredientRepo) Update(_ context.Context, ing *model.Ingredient) error {
	r.ingredients[ing.ID] = ing
	return nil
}

func (r *stubIngredientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.ingredients, id)
	return nil
}

// FindByIDTx hands back a copy, the way a fresh row scan would.
func (r *stubIngredientRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *ing
	return &cp, nil
}

func (r *stubIngredientRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, newStock float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ing, ok := r.ingredients[id]
	if !ok {
		return errors.New("not found")
	}
	ing.StockQuantity = newStock
	return nil
}

func (r *stubIngredientRepo) DB() *gorm.DB { return nil }

var _ repository.IngredientRepository = (*stubIngredientRepo)(nil)

// ── Stock movements ──────────────────────────────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Dishes & preparations ────────────────────────────────────────────────────

type stubDishRepo struct {
	dishes map[uuid.UUID]*model.Dish
}

func newStubDishRepo() *stubDishRepo {
	return &stubDishRepo{dishes: make(map[uuid.UUID]*model.Dish)}
}

func (r *stubDishRepo) add(d *model.Dish) *model.Dish {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.dishes[d.ID] = d
	return d
}

func (r *stubDishRepo) Create(_ context.Context, d *model.Dish) error {
	r.add(d)
	return nil
}

func (r *stubDishRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Dish, error) {
	d, ok := r.dishes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (r *stubDishRepo) List(_ context.Context, _ dto.RecipeFilter) ([]model.Dish, int64, error) {
	var out []model.Dish
	for _, d := range r.dishes {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDishRepo) ListActive(_ context.Context) ([]model.Dish, error) {
	var out []model.Dish
	for _, d := range r.dishes {
		if d.Status == "Actif" {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDishRepo) Update(_ context.Context, d *model.Dish) error {
	r.dishes[d.ID] = d
	return nil
}

func (r *stubDishRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.dishes, id)
	return nil
}

var _ repository.DishRepository = (*stubDishRepo)(nil)

type stubPreparationRepo struct {
	preparations map[uuid.UUID]*model.Preparation
}

func newStubPreparationRepo() *stubPreparationRepo {
	return &stubPreparationRepo{preparations: make(map[uuid.UUID]*model.Preparation)}
}

func (r *stubPreparationRepo) Create(_ context.Context, p *model.Preparation) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.preparations[p.ID] = p
	return nil
}

func (r *stubPreparationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Preparation, error) {
	p, ok := r.preparations[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubPreparationRepo) List(_ context.Context, _ dto.RecipeFilter) ([]model.Preparation, int64, error) {
	var out []model.Preparation
	for _, p := range r.preparations {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPreparationRepo) Update(_ context.Context, p *model.Preparation) error {
	r.preparations[p.ID] = p
	return nil
}

func (r *stubPreparationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.preparations, id)
	return nil
}

var _ repository.PreparationRepository = (*stubPreparationRepo)(nil)

// ── Composition graph ────────────────────────────────────────────────────────

// stubGraphRepo rebuilds a snapshot from the other stubs on every load, the
// same way the real repository re-reads the tables.
type stubGraphRepo struct {
	ingredients *stubIngredientRepo
	dishes      *stubDishRepo

	preparations map[uuid.UUID]*model.Preparation
	ingLinks     []model.RecipeIngredient
	prepLinks    []model.RecipePreparation
}

func newStubGraphRepo(ingredients *stubIngredientRepo, dishes *stubDishRepo) *stubGraphRepo {
	return &stubGraphRepo{
		ingredients:  ingredients,
		dishes:       dishes,
		preparations: make(map[uuid.UUID]*model.Preparation),
	}
}

func (r *stubGraphRepo) linkIngredient(kind model.ParentKind, parentID, ingredientID uuid.UUID, qty float64, unit string) {
	r.ingLinks = append(r.ingLinks, model.RecipeIngredient{
		ID: uuid.New(), ParentKind: kind, ParentID: parentID,
		IngredientID: ingredientID, Quantity: qty, UnitUse: unit,
	})
}

func (r *stubGraphRepo) LoadSnapshot(_ context.Context) (*costing.Snapshot, error) {
	ings := r.ingredients.all()
	var preps []model.Preparation
	for _, p := range r.preparations {
		preps = append(preps, *p)
	}
	return costing.NewSnapshot(ings, preps, r.ingLinks, r.prepLinks), nil
}

func (r *stubGraphRepo) ListIngredientLinks(_ context.Context, kind model.ParentKind, parentID uuid.UUID) ([]model.RecipeIngredient, error) {
	var out []model.RecipeIngredient
	for _, l := range r.ingLinks {
		if l.ParentKind == kind && l.ParentID == parentID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubGraphRepo) ListPreparationLinks(_ context.Context, kind model.ParentKind, parentID uuid.UUID) ([]model.RecipePreparation, error) {
	var out []model.RecipePreparation
	for _, l := range r.prepLinks {
		if l.ParentKind == kind && l.ParentID == parentID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubGraphRepo) ReplaceComposition(_ context.Context, kind model.ParentKind, parentID uuid.UUID,
	ingredients []model.RecipeIngredient, preparations []model.RecipePreparation) error {
	keptIng := r.ingLinks[:0]
	for _, l := range r.ingLinks {
		if !(l.ParentKind == kind && l.ParentID == parentID) {
			keptIng = append(keptIng, l)
		}
	}
	r.ingLinks = keptIng
	keptPrep := r.prepLinks[:0]
	for _, l := range r.prepLinks {
		if !(l.ParentKind == kind && l.ParentID == parentID) {
			keptPrep = append(keptPrep, l)
		}
	}
	r.prepLinks = keptPrep
	for _, l := range ingredients {
		l.ParentKind = kind
		l.ParentID = parentID
		r.ingLinks = append(r.ingLinks, l)
	}
	for _, l := range preparations {
		l.ParentKind = kind
		l.ParentID = parentID
		r.prepLinks = append(r.prepLinks, l)
	}
	return nil
}

var _ repository.GraphRepository = (*stubGraphRepo)(nil)

// ── Sales ────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu        sync.Mutex
	sales     map[uuid.UUID]*model.Sale
	ticketSeq int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

// NextTicketNumber mimics the Postgres sequence: an atomic counter independent
// of the stored rows.
func (r *stubSaleRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return errors.New("not found")
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Tables ───────────────────────────────────────────────────────────────────

type stubTableRepo struct {
	mu     sync.Mutex
	tables map[uuid.UUID]*model.DiningTable
}

func newStubTableRepo() *stubTableRepo {
	return &stubTableRepo{tables: make(map[uuid.UUID]*model.DiningTable)}
}

func (r *stubTableRepo) add(t *model.DiningTable) *model.DiningTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tables[t.ID] = t
	return t
}

func (r *stubTableRepo) Create(_ context.Context, t *model.DiningTable) error {
	r.add(t)
	return nil
}

func (r *stubTableRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DiningTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (r *stubTableRepo) List(_ context.Context) ([]model.DiningTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DiningTable
	for _, t := range r.tables {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubTableRepo) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return errors.New("not found")
	}
	t.Status = status
	return nil
}

var _ repository.TableRepository = (*stubTableRepo)(nil)

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func mustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("uuid invalide %q: %v", s, err)
	}
	return id
}
