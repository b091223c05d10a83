package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// User is the public user record.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	UserType  int    `json:"user_type"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Birthday  int64  `json:"birthday"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Photo     string `json:"photo"`
	IsPending int    `json:"is_pending"`
}

// LoginResult is the data of a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RefItem is a row of a reference table (categories, allergens, appliances).
type RefItem struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

type Zipcode struct {
	Zip string `json:"zip"`
}

type MenuCustomization struct {
	Name          string  `json:"name"`
	UpchargePrice float64 `json:"upcharge_price"`
}

// Menu is a menu item as stored by the server; id lists are comma-joined.
type Menu struct {
	ID             int                 `json:"id"`
	UserID         int                 `json:"user_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	CategoryIDs    string              `json:"category_ids"`
	Appliances     string              `json:"appliances"`
	Allergens      string              `json:"allergens"`
	EstimatedTime  int                 `json:"estimated_time"`
	ServingSize    int                 `json:"serving_size"`
	Price          float64             `json:"price"`
	Customizations []MenuCustomization `json:"customizations"`
	IsLive         int                 `json:"is_live"`
}

// MenuInput is the create_menu / update_menu form.
type MenuInput struct {
	Title          string  `form:"title"`
	Description    string  `form:"description"`
	CategoryIDs    string  `form:"category_ids"`
	Appliances     string  `form:"appliances"`
	Allergens      string  `form:"allergens"`
	EstimatedTime  int     `form:"estimated_time"`
	ServingSize    int     `form:"serving_size"`
	Price          float64 `form:"price"`
	Customizations string  `form:"customizations"`
	IsLive         int     `form:"is_live"`
}

// EncodeCustomizations renders customizations as the JSON string the form expects.
func EncodeCustomizations(items []MenuCustomization) string {
	if items == nil {
		items = []MenuCustomization{}
	}
	raw, _ := json.Marshal(items)
	return string(raw)
}

// MenuMetadata is the AI suggestion for a menu item's id lists.
type MenuMetadata struct {
	CategoryIDs []int `json:"category_ids"`
	Allergens   []int `json:"allergens"`
	Appliances  []int `json:"appliances"`
}

type ChefProfile struct {
	User
	Bio         string `json:"bio"`
	MenuCount   int    `json:"menu_count"`
	ServiceZips string `json:"service_zips"`
}

type PaymentMethod struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
}

// Register submits the signup form. photoPath may be empty.
func (c *Client) Register(ctx context.Context, fields any, photoPath string) Response {
	values, err := c.Encode(fields)
	if err != nil {
		log.WithError(err).Error("Failed to encode registration")
		return failed()
	}
	form := Form{Fields: values}
	if photoPath != "" {
		form.Files = map[string]string{"photo": photoPath}
	}
	return c.POST(ctx, "register", form)
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, Response) {
	var result LoginResult
	resp := c.POST(ctx, "login", url.Values{"email": {email}, "password": {password}})
	if !resp.OK() {
		return result, resp
	}
	if err := resp.Decode(&result); err != nil || result.Token == "" {
		log.WithField("error", fmt.Sprint(err)).Warn("Login response carried no token")
		return result, failed()
	}
	if err := c.tokens.SetToken(result.Token); err != nil {
		log.WithError(err).Error("Failed to store token")
		return result, failed()
	}
	return result, resp
}

// VerifyPhone requests a code when code is empty, otherwise checks it.
func (c *Client) VerifyPhone(ctx context.Context, phone, code string) Response {
	values := url.Values{"phone": {phone}}
	if code != "" {
		values.Set("code", code)
	}
	return c.POST(ctx, "verify_phone", values)
}

func (c *Client) CreateCategory(ctx context.Context, name string) (RefItem, Response) {
	var cat RefItem
	resp := c.POST(ctx, "create_category", url.Values{"name": {name}})
	if resp.OK() {
		if err := resp.Decode(&cat); err != nil {
			return cat, failed()
		}
	}
	return cat, resp
}

func (c *Client) DeleteCategory(ctx context.Context, id int) Response {
	return c.DELETE(ctx, "delete_category/"+strconv.Itoa(id))
}

func (c *Client) CreateMenu(ctx context.Context, in MenuInput) (Menu, Response) {
	return c.postMenu(ctx, "create_menu", in)
}

func (c *Client) UpdateMenu(ctx context.Context, id int, in MenuInput) (Menu, Response) {
	return c.postMenu(ctx, "update_menu/"+strconv.Itoa(id), in)
}

func (c *Client) DeleteMenu(ctx context.Context, id int) Response {
	return c.DELETE(ctx, "delete_menu/"+strconv.Itoa(id))
}

func (c *Client) postMenu(ctx context.Context, path string, in MenuInput) (Menu, Response) {
	var menu Menu
	resp := c.POST(ctx, path, in)
	if resp.OK() {
		if err := resp.Decode(&menu); err != nil {
			return menu, failed()
		}
	}
	return menu, resp
}

func (c *Client) AnalyzeMenuMetadata(ctx context.Context, title, description string) (MenuMetadata, Response) {
	var meta MenuMetadata
	resp := c.POST(ctx, "AnalyzeMenuMetadataAPI", url.Values{"title": {title}, "description": {description}})
	if resp.OK() {
		if err := resp.Decode(&meta); err != nil {
			return meta, failed()
		}
	}
	return meta, resp
}

func (c *Client) GenerateMenuDescription(ctx context.Context, title string) (string, Response) {
	return c.postText(ctx, "GenerateMenuDescriptionAPI", url.Values{"title": {title}})
}

func (c *Client) EnhanceMenuDescription(ctx context.Context, title, description string) (string, Response) {
	return c.postText(ctx, "EnhanceMenuDescriptionAPI", url.Values{"title": {title}, "description": {description}})
}

func (c *Client) postText(ctx context.Context, path string, values url.Values) (string, Response) {
	var out struct {
		Description string `json:"description"`
	}
	resp := c.POST(ctx, path, values)
	if resp.OK() {
		if err := resp.Decode(&out); err != nil {
			return "", failed()
		}
	}
	return out.Description, resp
}

func (c *Client) GetAppliances(ctx context.Context) ([]RefItem, Response) {
	return getList[RefItem](ctx, c, "get_appliances")
}

func (c *Client) GetCategories(ctx context.Context) ([]RefItem, Response) {
	return getList[RefItem](ctx, c, "get_categories")
}

func (c *Client) GetAllergens(ctx context.Context) ([]RefItem, Response) {
	return getList[RefItem](ctx, c, "get_allergens")
}

func (c *Client) GetZipcodes(ctx context.Context) ([]Zipcode, Response) {
	return getList[Zipcode](ctx, c, "get_zipcodes")
}

func (c *Client) GetUsers(ctx context.Context) ([]User, Response) {
	return getList[User](ctx, c, "get_users")
}

func (c *Client) GetChefMenus(ctx context.Context, chefID int) ([]Menu, Response) {
	return getList[Menu](ctx, c, "get_chef_menus/"+strconv.Itoa(chefID))
}

func (c *Client) GetChefProfile(ctx context.Context, chefID int) (ChefProfile, Response) {
	var profile ChefProfile
	resp := c.GET(ctx, "get_chef_profile/"+strconv.Itoa(chefID), nil)
	if resp.OK() {
		if err := resp.Decode(&profile); err != nil {
			return profile, failed()
		}
	}
	return profile, resp
}

// GetPaymentMethod returns a nil method when the user has none on file.
func (c *Client) GetPaymentMethod(ctx context.Context) (*PaymentMethod, Response) {
	var pm PaymentMethod
	resp := c.GET(ctx, "get_payment_method", nil)
	if !resp.OK() || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, resp
	}
	if err := resp.Decode(&pm); err != nil {
		return nil, failed()
	}
	return &pm, resp
}

func (c *Client) UpdateFCMToken(ctx context.Context, fcmToken string) Response {
	return c.POST(ctx, "update_fcm_token", url.Values{"fcm_token": {fcmToken}})
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, Response) {
	var items []T
	resp := c.GET(ctx, path, nil)
	if resp.OK() {
		if err := resp.Decode(&items); err != nil {
			return nil, failed()
		}
	}
	return items, resp
}
