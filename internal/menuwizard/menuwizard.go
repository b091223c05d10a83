// Package menuwizard is the eight-step menu item editor shared by item
// creation and editing.
package menuwizard

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/taist-api/internal/client"
	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/wizard"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

const (
	RouteChefHome = "ChefHome"
	RouteBack     = "Back"

	// ChefHomeMenuTab is the tab ChefHome opens on after the first item.
	ChefHomeMenuTab = "Menu"
)

// Backend is the part of the API the menu wizard calls. *client.Client
// satisfies it.
type Backend interface {
	CreateCategory(ctx context.Context, name string) (client.RefItem, client.Response)
	DeleteCategory(ctx context.Context, id int) client.Response
	CreateMenu(ctx context.Context, in client.MenuInput) (client.Menu, client.Response)
	UpdateMenu(ctx context.Context, id int, in client.MenuInput) (client.Menu, client.Response)
	AnalyzeMenuMetadata(ctx context.Context, title, description string) (client.MenuMetadata, client.Response)
	GenerateMenuDescription(ctx context.Context, title string) (string, client.Response)
	EnhanceMenuDescription(ctx context.Context, title, description string) (string, client.Response)
}

type flowKey struct{}

// Wizard is the menu item step controller.
type Wizard struct {
	*wizard.Controller[draft.MenuItemDraft, flowKey]

	backend               Backend
	isOnboardingFirstItem bool

	// enhanced is the rewrite awaiting AcceptEnhanced or KeepOwn.
	enhanced string
	// settled is the description the user last resolved a rewrite for.
	settled string
	saved   *client.Menu
}

// New starts a wizard for a new item. isOnboardingFirstItem routes the
// finished wizard to the chef home tab instead of back.
func New(backend Backend, isOnboardingFirstItem bool) *Wizard {
	return build(backend, NewDraft(), isOnboardingFirstItem)
}

// NewEdit starts a wizard pre-filled from an existing item.
func NewEdit(backend Backend, menu client.Menu, isOnboardingFirstItem bool) *Wizard {
	return build(backend, DraftFromMenu(menu), isOnboardingFirstItem)
}

func build(backend Backend, initial draft.MenuItemDraft, isOnboardingFirstItem bool) *Wizard {
	w := &Wizard{backend: backend, isOnboardingFirstItem: isOnboardingFirstItem}
	flows := map[flowKey]wizard.Flow[draft.MenuItemDraft]{
		{}: {
			Steps: []wizard.Step[draft.MenuItemDraft]{
				nameStep{w},
				descriptionStep{w},
				categoriesStep{},
				allergensStep{},
				kitchenStep{},
				pricingStep{},
				customizationsStep{},
				reviewStep{},
			},
			Finish: w.submit,
		},
	}
	w.Controller = wizard.New(initial, func(*draft.MenuItemDraft) flowKey { return flowKey{} }, flows)
	return w
}

// NewDraft is the draft a new item starts from.
func NewDraft() draft.MenuItemDraft {
	return draft.MenuItemDraft{
		CategoryIDs:      draft.NewIdSet(),
		Appliances:       draft.NewIdSet(),
		Allergens:        draft.NewIdSet(),
		CompletionTimeID: draft.DefaultCompletionTimeID,
		ServingSize:      1,
		IsLive:           true,
	}
}

// DraftFromMenu parses a stored item for editing. An estimated_time outside
// the completion time table becomes the first bucket.
func DraftFromMenu(m client.Menu) draft.MenuItemDraft {
	d := draft.MenuItemDraft{
		ID:                   m.ID,
		Title:                m.Title,
		Description:          m.Description,
		SuggestedDescription: m.Description,
		CategoryIDs:          draft.FromWireFormat(m.CategoryIDs),
		Appliances:           draft.FromWireFormat(m.Appliances),
		Allergens:            draft.FromWireFormat(m.Allergens),
		CompletionTimeID:     draft.CompletionTimeForMinutes(m.EstimatedTime),
		ServingSize:          m.ServingSize,
		PriceText:            draft.MoneyFromFloat(m.Price).EditableString(),
		IsLive:               m.IsLive == 1,
	}
	if minutes, _ := draft.MinutesForCompletionTime(d.CompletionTimeID); minutes != m.EstimatedTime {
		log.WithFields(logrus.Fields{"menu_id": m.ID, "estimated_time": m.EstimatedTime}).
			Warn("Stored estimated time matches no bucket, using the default")
	}
	for _, c := range m.Customizations {
		d.Customizations = append(d.Customizations, draft.Customization{
			Name:          c.Name,
			UpchargePrice: draft.MoneyFromFloat(c.UpchargePrice),
		})
	}
	return d
}

// PendingEnhancement is the AI rewrite the user must accept or decline
// before the description step advances.
func (w *Wizard) PendingEnhancement() (string, bool) {
	return w.enhanced, w.enhanced != ""
}

// AcceptEnhanced replaces the description with the pending rewrite.
func (w *Wizard) AcceptEnhanced() {
	if w.enhanced == "" {
		return
	}
	text := w.enhanced
	w.Update(func(d *draft.MenuItemDraft) { d.Description = text })
	w.settled, w.enhanced = text, ""
}

// KeepOwn discards the pending rewrite.
func (w *Wizard) KeepOwn() {
	if w.enhanced == "" {
		return
	}
	w.settled = w.Draft().Description
	w.enhanced = ""
}

// SetDescription records typed text and whether it departs from the suggestion.
func SetDescription(text string) draft.Patch[draft.MenuItemDraft] {
	return func(d *draft.MenuItemDraft) {
		d.Description = text
		d.DescriptionEdited = text != d.SuggestedDescription
	}
}

// AddCustomization appends an add-on, parsing its upcharge text.
func (w *Wizard) AddCustomization(name, upcharge string) error {
	price, err := draft.ParseUpcharge(upcharge)
	if err != nil {
		return err
	}
	w.Update(func(d *draft.MenuItemDraft) {
		d.Customizations = append(append([]draft.Customization(nil), d.Customizations...), draft.Customization{
			Name:          strings.TrimSpace(name),
			UpchargePrice: price,
		})
	})
	return nil
}

// RemoveCustomization drops the add-on at index i.
func (w *Wizard) RemoveCustomization(i int) {
	w.Update(func(d *draft.MenuItemDraft) {
		if i < 0 || i >= len(d.Customizations) {
			return
		}
		out := make([]draft.Customization, 0, len(d.Customizations)-1)
		out = append(out, d.Customizations[:i]...)
		d.Customizations = append(out, d.Customizations[i+1:]...)
	})
}

// Input renders a draft as the create_menu / update_menu form.
func Input(d draft.MenuItemDraft, categories draft.IdSet) (client.MenuInput, error) {
	price, err := d.Price()
	if err != nil {
		return client.MenuInput{}, err
	}
	custom := make([]client.MenuCustomization, 0, len(d.Customizations))
	for _, c := range d.Customizations {
		custom = append(custom, client.MenuCustomization{Name: c.Name, UpchargePrice: c.UpchargePrice.Float64()})
	}
	in := client.MenuInput{
		Title:          strings.TrimSpace(d.Title),
		Description:    strings.TrimSpace(d.Description),
		CategoryIDs:    categories.ToWireFormat(),
		Appliances:     d.Appliances.ToWireFormat(),
		Allergens:      d.Allergens.ToWireFormat(),
		EstimatedTime:  d.EstimatedTime(),
		ServingSize:    d.ServingSize,
		Price:          price.Float64(),
		Customizations: client.EncodeCustomizations(custom),
	}
	if d.IsLive {
		in.IsLive = 1
	}
	return in, nil
}

// submit creates a requested category, then the item. When the item call
// fails the new category is deleted again.
func (w *Wizard) submit(ctx context.Context, d *draft.MenuItemDraft) (wizard.Route, error) {
	logger := log.WithFields(logrus.Fields{"menu_id": d.ID, "title": d.Title})

	if _, err := Input(*d, d.CategoryIDs); err != nil {
		return wizard.Route{}, err
	}

	categories := d.CategoryIDs
	createdCategory := 0
	if d.IsNewCategory {
		cat, resp := w.backend.CreateCategory(ctx, strings.TrimSpace(d.NewCategoryName))
		if err := wizard.Check(resp); err != nil {
			logger.WithError(err).Info("Category request rejected")
			return wizard.Route{}, err
		}
		createdCategory = cat.ID
		categories = categories.With(cat.ID)
		logger.WithField("category_id", cat.ID).Debug("Requested new category")
	}

	in, err := Input(*d, categories)
	if err != nil {
		return wizard.Route{}, err
	}

	var (
		menu client.Menu
		resp client.Response
	)
	if d.IsEdit() {
		menu, resp = w.backend.UpdateMenu(ctx, d.ID, in)
	} else {
		menu, resp = w.backend.CreateMenu(ctx, in)
	}
	if err := wizard.Check(resp); err != nil {
		logger.WithError(err).Info("Menu item rejected")
		if createdCategory != 0 {
			w.discardCategory(ctx, createdCategory)
		}
		return wizard.Route{}, err
	}

	d.CategoryIDs = categories
	d.IsNewCategory, d.NewCategoryName = false, ""
	if menu.ID != 0 {
		d.ID = menu.ID
	}
	menu.ID = d.ID
	w.saved = &menu
	logger.WithField("menu_id", d.ID).Info("Menu item saved")
	return w.route(), nil
}

// Saved is the item as the server returned it after the last successful submit.
func (w *Wizard) Saved() (client.Menu, bool) {
	if w.saved == nil {
		return client.Menu{}, false
	}
	return *w.saved, true
}

func (w *Wizard) discardCategory(ctx context.Context, id int) {
	// The submit context may already be cancelled; the cleanup still runs.
	resp := w.backend.DeleteCategory(context.WithoutCancel(ctx), id)
	if !resp.OK() {
		log.WithFields(logrus.Fields{"category_id": id, "error": resp.ErrorMessage()}).
			Error("Failed to delete orphaned category")
	}
}

func (w *Wizard) route() wizard.Route {
	if w.isOnboardingFirstItem {
		return wizard.Route{Name: RouteChefHome, Replace: true, Params: map[string]any{"tab": ChefHomeMenuTab}}
	}
	return wizard.Route{Name: RouteBack}
}
