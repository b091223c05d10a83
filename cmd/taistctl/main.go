// Command taistctl drives the signup and menu item wizards against a Taist
// server through the API client. The session token is kept in a file so
// that later commands act as the signed-in user.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/taist-api/internal/client"
	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/menuwizard"
	"github.com/franciscosanchezn/taist-api/internal/session"
	"github.com/franciscosanchezn/taist-api/internal/signup"
	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/franciscosanchezn/taist-api/internal/wizard"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const usage = `usage: taistctl [global flags] <command> [flags]

commands:
  signup      register a customer or chef and sign in
  login       sign in and load the session
  menu        create a menu item, or edit one with -id
  logout      forget the stored session

global flags:
`

type globals struct {
	env       string
	baseURL   string
	apiKey    string
	stateDir  string
	fcmToken  string
	verbose   bool
	tokenFile string
	userFile  string
}

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	var g globals
	fs := flag.NewFlagSet("taistctl", flag.ExitOnError)
	fs.StringVar(&g.env, "env", envOr("TAIST_ENV", string(client.Local)), "local, staging or production")
	fs.StringVar(&g.baseURL, "base-url", os.Getenv("TAIST_BASE_URL"), "server URL, overrides -env")
	fs.StringVar(&g.apiKey, "api-key", os.Getenv("TAIST_API_KEY"), "static application key")
	fs.StringVar(&g.stateDir, "state", defaultStateDir(), "directory holding the session")
	fs.StringVar(&g.fcmToken, "fcm-token", "", "device push token sent after login")
	fs.BoolVar(&g.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}
	if g.verbose {
		log.SetLevel(log.DebugLevel)
		wizard.SetLogLevel(log.DebugLevel)
	}
	g.tokenFile = filepath.Join(g.stateDir, "token")
	g.userFile = filepath.Join(g.stateDir, "user.json")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(client.Config{
		Environment: client.Environment(g.env),
		BaseURL:     g.baseURL,
		APIKey:      g.apiKey,
		Tokens:      client.NewFileTokenStore(g.tokenFile),
	})

	args := fs.Args()
	var err error
	switch args[0] {
	case "signup":
		err = runSignup(ctx, c, &g, args[1:])
	case "login":
		err = runLogin(ctx, c, &g, args[1:])
	case "menu":
		err = runMenu(ctx, c, &g, args[1:])
	case "logout":
		err = runLogout(&g)
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, message(err))
		os.Exit(1)
	}
}

// message prefers the text the app would show and falls back to the error
// itself for local failures.
func message(err error) string {
	var vErr *validation.Error
	var sErr *wizard.ServerError
	if errors.As(err, &vErr) || errors.As(err, &sErr) || errors.Is(err, wizard.ErrSubmitInFlight) {
		return wizard.Toast(err)
	}
	return err.Error()
}

func runSignup(ctx context.Context, c *client.Client, g *globals, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	userType := fs.String("type", "customer", "customer or chef")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	phone := fs.String("phone", "", "phone number")
	birthday := fs.String("birthday", "", "birthday as YYYY-MM-DD (chefs)")
	address := fs.String("address", "", "street address")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state")
	zip := fs.String("zip", "", "ZIP code")
	allergens := fs.String("allergens", "", "comma separated allergen ids")
	photo := fs.String("photo", "", "profile photo file (required for chefs)")
	verify := fs.Bool("verify", false, "prompt for the SMS code after the profile step")
	at := fs.String("at", "", "device position as lat,lng; fills the location step")
	_ = fs.Parse(args)

	patch := func(d *draft.UserSignupDraft) {
		d.Email, d.Password = *email, *password
		d.FirstName, d.LastName, d.Phone = *first, *last, *phone
		d.Address, d.City, d.State, d.Zip = *address, *city, *state, *zip
		d.Allergens = draft.FromWireFormat(*allergens)
		d.Photo = *photo
	}
	born, err := parseBirthday(*birthday)
	if err != nil {
		return err
	}

	var opts []signup.Option
	if *at != "" {
		locator, err := parseLocator(*at)
		if err != nil {
			return err
		}
		opts = append(opts, signup.WithLocator(locator))
	}

	w := signup.New(c, opts...)
	w.Update(patch)
	var route wizard.Route
	for {
		step := w.Current().Name()
		switch step {
		case signup.StepUserType:
			w.SelectUserType(parseUserType(*userType))
		case signup.StepLocation:
			if *at != "" {
				if err := w.DetectLocation(ctx); err != nil {
					log.WithError(err).Warn("Could not use the device position")
				}
			}
		}
		out, err := w.Next(ctx)
		if err != nil {
			return err
		}
		if step == signup.StepBasicProfile && *verify {
			if err := verifyPhone(ctx, c, *phone); err != nil {
				return err
			}
		}
		if out.Route != nil {
			route = *out.Route
			break
		}
		log.WithField("step", out.Step).Debug("Signup step")
	}

	login, signedIn := w.LoginResult()
	if route.Name == signup.RouteAccount {
		form, err := signup.NewAccountForm(c, route.Params)
		if err != nil {
			return err
		}
		form.Update(patch, func(d *draft.UserSignupDraft) { d.Birthday = born })
		if route, err = form.Submit(ctx); err != nil {
			return err
		}
		login, signedIn = form.LoginResult()
	}

	fmt.Printf("Signed up, opening %s\n", route.Name)
	if !signedIn {
		return startSession(ctx, c, g, *email, *password)
	}
	return bootstrap(ctx, c, g, login.User)
}

// parseLocator reads "lat,lng" into a locator reporting that fixed position.
func parseLocator(s string) (signup.Locator, error) {
	latText, lngText, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("position must look like 40.75,-73.99: %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("bad latitude %q", latText)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngText), 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("bad longitude %q", lngText)
	}
	return signup.LocatorFunc(func(context.Context) (signup.Location, error) {
		return signup.Location{Latitude: lat, Longitude: lng}, nil
	}), nil
}

func parseUserType(s string) draft.UserType {
	switch strings.ToLower(s) {
	case "customer", "1":
		return draft.UserTypeCustomer
	case "chef", "2":
		return draft.UserTypeChef
	default:
		return draft.UserTypeUnknown
	}
}

func parseBirthday(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("birthday must look like 1990-04-30: %w", err)
	}
	return t.Unix(), nil
}

func verifyPhone(ctx context.Context, c *client.Client, phone string) error {
	fmt.Print("Verification code: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return errors.New("no verification code entered")
	}
	return wizard.Check(c.VerifyPhone(ctx, phone, strings.TrimSpace(scanner.Text())))
}

func runLogin(ctx context.Context, c *client.Client, g *globals, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)
	return startSession(ctx, c, g, *email, *password)
}

// startSession signs in and bootstraps the session.
func startSession(ctx context.Context, c *client.Client, g *globals, email, password string) error {
	result, resp := c.Login(ctx, email, password)
	if err := wizard.Check(resp); err != nil {
		return err
	}
	return bootstrap(ctx, c, g, result.User)
}

// bootstrap loads the home screen data for a signed-in user and remembers them.
func bootstrap(ctx context.Context, c *client.Client, g *globals, u client.User) error {
	store := session.NewStore()
	if err := session.NewLoader(c, store, g.fcmToken).Bootstrap(ctx, u); err != nil {
		return err
	}
	if err := saveUser(g.userFile, u); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s %s <%s>\n", u.FirstName, u.LastName, u.Email)
	fmt.Printf("Reference data: %d categories, %d allergens, %d appliances, %d zipcodes\n",
		len(store.Categories()), len(store.Allergens()), len(store.Appliances()), len(store.Zipcodes()))
	if u.Zip != "" && !store.ServesZip(u.Zip) {
		fmt.Printf("Note: Taist does not serve %s yet\n", u.Zip)
	}
	if profile, ok := store.ChefProfile(); ok {
		fmt.Printf("Chef profile: %d menu items", profile.MenuCount)
		if u.IsPending == 1 {
			fmt.Print(" (account pending review)")
		}
		fmt.Println()
		for _, m := range store.Menus() {
			fmt.Printf("  #%d %s $%.2f\n", m.ID, m.Title, m.Price)
		}
	}
	if pm, ok := store.PaymentMethod(); ok {
		fmt.Printf("Payment method: %s ending in %s\n", pm.Brand, pm.Last4)
	}
	return nil
}

type customizationsFlag []string

func (f *customizationsFlag) String() string { return strings.Join(*f, ",") }

func (f *customizationsFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func runMenu(ctx context.Context, c *client.Client, g *globals, args []string) error {
	fs := flag.NewFlagSet("menu", flag.ExitOnError)
	id := fs.Int("id", 0, "menu item to edit")
	title := fs.String("title", "", "item name")
	description := fs.String("description", "", "description; suggested when empty")
	categories := fs.String("categories", "", "comma separated category ids")
	newCategory := fs.String("new-category", "", "request a new category")
	allergens := fs.String("allergens", "", "comma separated allergen ids")
	appliances := fs.String("appliances", "", "comma separated appliance ids")
	completion := fs.String("time", "", "completion time bucket id (1 = 2 hours ... 6 = 15 minutes)")
	serving := fs.Int("serving", 0, "serving size, 1 to 10")
	price := fs.String("price", "", "price in dollars")
	hidden := fs.Bool("hidden", false, "save without listing the item")
	acceptRewrite := fs.Bool("accept-rewrite", false, "take the suggested rewrite of an edited description")
	var custom customizationsFlag
	fs.Var(&custom, "custom", "customization as name=upcharge, repeatable")
	_ = fs.Parse(args)

	user, err := loadUser(g.userFile)
	if err != nil {
		return err
	}

	store := session.NewStore()
	if err := session.NewLoader(c, store, "").LoadChefMenus(ctx, user); err != nil {
		return err
	}
	var w *menuwizard.Wizard
	if *id != 0 {
		found, ok := store.Menu(*id)
		if !ok {
			return fmt.Errorf("menu item %d not found", *id)
		}
		w = menuwizard.NewEdit(c, found, store.IsOnboardingFirstItem())
	} else {
		w = menuwizard.New(c, store.IsOnboardingFirstItem())
	}

	w.Update(func(d *draft.MenuItemDraft) {
		if *title != "" {
			d.Title = *title
		}
		if *categories != "" {
			d.CategoryIDs = draft.FromWireFormat(*categories)
		}
		if *allergens != "" {
			d.Allergens = draft.FromWireFormat(*allergens)
		}
		if *appliances != "" {
			d.Appliances = draft.FromWireFormat(*appliances)
		}
		if *completion != "" {
			d.CompletionTimeID = *completion
		}
		if *serving != 0 {
			d.ServingSize = *serving
		}
		if *price != "" {
			d.PriceText = *price
		}
		if *hidden {
			d.IsLive = false
		}
	})
	if *description != "" {
		w.Update(menuwizard.SetDescription(*description))
	}
	if *newCategory != "" {
		w.Update(menuwizard.RequestNewCategory(true, *newCategory))
	}
	if len(custom) > 0 {
		w.Update(func(d *draft.MenuItemDraft) { d.Customizations = nil })
	}
	for _, item := range custom {
		name, upcharge, _ := strings.Cut(item, "=")
		if err := w.AddCustomization(name, upcharge); err != nil {
			return err
		}
	}

	for {
		out, err := w.Next(ctx)
		if err != nil {
			return err
		}
		if out.Held {
			rewrite, _ := w.PendingEnhancement()
			fmt.Printf("Suggested rewrite: %s\n", rewrite)
			if *acceptRewrite {
				w.AcceptEnhanced()
			} else {
				w.KeepOwn()
			}
			continue
		}
		if out.Route != nil {
			if saved, ok := w.Saved(); ok {
				store.PutMenu(saved)
			}
			d := w.Draft()
			fmt.Printf("Saved menu item #%d %q, opening %s\n", d.ID, d.Title, out.Route.Name)
			fmt.Printf("Menu now has %d items\n", len(store.Menus()))
			return nil
		}
	}
}

func runLogout(g *globals) error {
	if err := client.NewFileTokenStore(g.tokenFile).Clear(); err != nil {
		return err
	}
	if err := os.Remove(g.userFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func saveUser(path string, u client.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func loadUser(path string) (client.User, error) {
	var u client.User
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return u, errors.New("not signed in, run taistctl login first")
		}
		return u, err
	}
	return u, json.Unmarshal(raw, &u)
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "taistctl")
	}
	return ".taistctl"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
