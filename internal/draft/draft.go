// Package draft holds the partially filled records the wizards accumulate
// across steps before submitting them in one call.
package draft

// Patch sets a subset of a draft's fields. Patches only assign, so applying
// the same patch twice leaves the draft as applying it once.
type Patch[D any] func(*D)

// Apply runs patches against d in order.
func Apply[D any](d *D, patches ...Patch[D]) {
	for _, p := range patches {
		if p != nil {
			p(d)
		}
	}
}

// UserType is fixed at the user-type step and selects the step sequence.
type UserType int

const (
	UserTypeUnknown  UserType = 0
	UserTypeCustomer UserType = 1
	UserTypeChef     UserType = 2
)

func (t UserType) Valid() bool {
	return t == UserTypeCustomer || t == UserTypeChef
}

func (t UserType) String() string {
	switch t {
	case UserTypeCustomer:
		return "customer"
	case UserTypeChef:
		return "chef"
	default:
		return "unknown"
	}
}

// UserSignupDraft accumulates the registration payload. Form tags are the
// register endpoint's field names.
type UserSignupDraft struct {
	Email     string   `form:"email"`
	Password  string   `form:"password"`
	UserType  UserType `form:"user_type"`
	FirstName string   `form:"first_name,omitempty"`
	LastName  string   `form:"last_name,omitempty"`
	Phone     string   `form:"phone,omitempty"`
	Birthday  int64    `form:"birthday,omitempty"`
	Address   string   `form:"address,omitempty"`
	City      string   `form:"city,omitempty"`
	State     string   `form:"state,omitempty"`
	Zip       string   `form:"zip,omitempty"`
	Latitude  float64  `form:"latitude,omitempty"`
	Longitude float64  `form:"longitude,omitempty"`
	Allergens IdSet    `form:"allergens,omitempty"`
	// Photo is a local file path until registration uploads it.
	Photo string `form:"-"`
}

// Customization is an optional add-on with its own upcharge.
type Customization struct {
	Name          string
	UpchargePrice Money
}

// MenuItemDraft accumulates a menu item. ID is zero for a new item.
type MenuItemDraft struct {
	ID                   int
	Title                string
	Description          string
	SuggestedDescription string
	DescriptionEdited    bool
	CategoryIDs          IdSet
	Appliances           IdSet
	Allergens            IdSet
	CompletionTimeID     string
	ServingSize          int
	PriceText            string
	Customizations       []Customization
	IsLive               bool
	IsNewCategory        bool
	NewCategoryName      string
}

// Price parses the price being edited.
func (d MenuItemDraft) Price() (Money, error) {
	return ParseMoney(d.PriceText)
}

// EstimatedTime is the minutes value sent to the server for the chosen bucket.
func (d MenuItemDraft) EstimatedTime() int {
	if m, ok := MinutesForCompletionTime(d.CompletionTimeID); ok {
		return m
	}
	m, _ := MinutesForCompletionTime(DefaultCompletionTimeID)
	return m
}

// IsEdit reports whether the draft came from an existing record.
func (d MenuItemDraft) IsEdit() bool {
	return d.ID != 0
}
