package menuwizard

import (
	"context"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/validation"
)

const (
	StepName           = "name"
	StepDescription    = "description"
	StepCategories     = "categories"
	StepAllergens      = "allergens"
	StepKitchen        = "kitchen"
	StepPricing        = "pricing"
	StepCustomizations = "customizations"
	StepReview         = "review"
)

// nameStep asks for a suggested description once the title is set. The
// suggestion only fills an empty description.
type nameStep struct{ w *Wizard }

func (nameStep) Name() string { return StepName }

func (nameStep) Validate(d *draft.MenuItemDraft) error {
	return validation.Required("title", d.Title, validation.MsgMissingTitle)
}

func (s nameStep) BeforeAdvance(ctx context.Context, d *draft.MenuItemDraft) (bool, error) {
	if strings.TrimSpace(d.Description) != "" {
		return false, nil
	}
	text, resp := s.w.backend.GenerateMenuDescription(ctx, d.Title)
	if !resp.OK() || strings.TrimSpace(text) == "" {
		log.WithField("error", resp.ErrorMessage()).Debug("Description suggestion unavailable")
		return false, nil
	}
	d.Description, d.SuggestedDescription, d.DescriptionEdited = text, text, false
	return false, nil
}

// descriptionStep offers an AI rewrite of text the user changed, and holds
// until the user picks one.
type descriptionStep struct{ w *Wizard }

func (descriptionStep) Name() string { return StepDescription }

func (descriptionStep) Validate(d *draft.MenuItemDraft) error {
	return validation.Required("description", d.Description, validation.MsgMissingDescription)
}

func (s descriptionStep) BeforeAdvance(ctx context.Context, d *draft.MenuItemDraft) (bool, error) {
	w := s.w
	if w.enhanced != "" {
		return true, nil
	}
	if d.DescriptionEdited && d.Description != d.SuggestedDescription && d.Description != w.settled {
		text, resp := w.backend.EnhanceMenuDescription(ctx, d.Title, d.Description)
		text = strings.TrimSpace(text)
		switch {
		case !resp.OK():
			log.WithField("error", resp.ErrorMessage()).Debug("Description enhancement failed")
		case text != "" && text != d.Description:
			w.enhanced = text
			return true, nil
		}
	}
	s.suggestMetadata(ctx, d)
	return false, nil
}

// suggestMetadata pre-selects ids for lists the user has not touched yet.
func (s descriptionStep) suggestMetadata(ctx context.Context, d *draft.MenuItemDraft) {
	if d.CategoryIDs.Len() > 0 || d.Allergens.Len() > 0 || d.Appliances.Len() > 0 {
		return
	}
	meta, resp := s.w.backend.AnalyzeMenuMetadata(ctx, d.Title, d.Description)
	if !resp.OK() {
		log.WithField("error", resp.ErrorMessage()).Debug("Metadata suggestion failed")
		return
	}
	d.CategoryIDs = draft.NewIdSet(meta.CategoryIDs...)
	d.Allergens = draft.NewIdSet(meta.Allergens...)
	d.Appliances = draft.NewIdSet(meta.Appliances...)
}

// categoriesStep requires a category, or a named request for a new one.
type categoriesStep struct{}

func (categoriesStep) Name() string { return StepCategories }

func (categoriesStep) Validate(d *draft.MenuItemDraft) error {
	if d.IsNewCategory {
		return validation.Required("new_category_name", d.NewCategoryName, validation.MsgMissingNewCategory)
	}
	if d.CategoryIDs.Len() == 0 {
		return &validation.Error{Field: "category_ids", Message: validation.MsgMissingCategory}
	}
	return nil
}

type allergensStep struct{}

func (allergensStep) Name() string                        { return StepAllergens }
func (allergensStep) Validate(*draft.MenuItemDraft) error { return nil }

type kitchenStep struct{}

func (kitchenStep) Name() string                        { return StepKitchen }
func (kitchenStep) Validate(*draft.MenuItemDraft) error { return nil }

type pricingStep struct{}

func (pricingStep) Name() string { return StepPricing }

func (pricingStep) Validate(d *draft.MenuItemDraft) error {
	return validation.First(
		validation.Price(d.PriceText),
		validation.ServingSize(strconv.Itoa(d.ServingSize)),
	)
}

type customizationsStep struct{}

func (customizationsStep) Name() string { return StepCustomizations }

func (customizationsStep) Validate(d *draft.MenuItemDraft) error {
	for _, c := range d.Customizations {
		if err := validation.Required("customizations", c.Name, validation.MsgMissingCustomName); err != nil {
			return err
		}
	}
	return nil
}

type reviewStep struct{}

func (reviewStep) Name() string                        { return StepReview }
func (reviewStep) Validate(*draft.MenuItemDraft) error { return nil }

// ToggleCategory flips a category on the categories step.
func ToggleCategory(id int) draft.Patch[draft.MenuItemDraft] {
	return func(d *draft.MenuItemDraft) { d.CategoryIDs = d.CategoryIDs.Toggle(id) }
}

func ToggleAllergen(id int) draft.Patch[draft.MenuItemDraft] {
	return func(d *draft.MenuItemDraft) { d.Allergens = d.Allergens.Toggle(id) }
}

func ToggleAppliance(id int) draft.Patch[draft.MenuItemDraft] {
	return func(d *draft.MenuItemDraft) { d.Appliances = d.Appliances.Toggle(id) }
}

// RequestNewCategory sets the "request new category" toggle and its name.
func RequestNewCategory(on bool, name string) draft.Patch[draft.MenuItemDraft] {
	return func(d *draft.MenuItemDraft) {
		d.IsNewCategory = on
		d.NewCategoryName = name
	}
}
