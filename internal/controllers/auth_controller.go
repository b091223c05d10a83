package controllers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/franciscosanchezn/taist-api/internal/auth"
	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/integrations"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/services"
	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	userService services.UserService
	tokens      *auth.TokenIssuer
	photos      integrations.PhotoStore
	codes       integrations.CodeStore
	sms         integrations.SMSSender
	events      integrations.Publisher
}

func NewAuthController(
	userService services.UserService,
	tokens *auth.TokenIssuer,
	photos integrations.PhotoStore,
	codes integrations.CodeStore,
	sms integrations.SMSSender,
	events integrations.Publisher,
) *AuthController {
	return &AuthController{
		userService: userService,
		tokens:      tokens,
		photos:      photos,
		codes:       codes,
		sms:         sms,
		events:      events,
	}
}

// registerRequest mirrors the signup draft's form fields.
type registerRequest struct {
	Email     string  `form:"email"`
	Password  string  `form:"password"`
	UserType  int     `form:"user_type"`
	FirstName string  `form:"first_name"`
	LastName  string  `form:"last_name"`
	Phone     string  `form:"phone"`
	Birthday  int64   `form:"birthday"`
	Address   string  `form:"address"`
	City      string  `form:"city"`
	State     string  `form:"state"`
	Zip       string  `form:"zip"`
	Latitude  float64 `form:"latitude"`
	Longitude float64 `form:"longitude"`
	Allergens string  `form:"allergens"`
}

// validate applies the chef account rules to chefs. Customers only have
// their optional contact fields checked when they sent them.
func (r *registerRequest) validate(hasPhoto bool) error {
	if r.UserType != models.UserTypeCustomer && r.UserType != models.UserTypeChef {
		return &validation.Error{Field: "user_type", Message: validation.MsgInvalidUserType}
	}
	base := validation.First(validation.Email(r.Email), validation.Password(r.Password))
	if base != nil {
		return base
	}

	if r.UserType == models.UserTypeCustomer {
		var phone, zip error
		if r.Phone != "" {
			phone = validation.Phone(r.Phone)
		}
		if r.Zip != "" {
			zip = validation.Zip(r.Zip)
		}
		return validation.First(phone, zip)
	}

	var birthday, photo error
	if r.Birthday == 0 {
		birthday = &validation.Error{Field: "birthday", Message: validation.MsgMissingBirthday}
	}
	if !hasPhoto {
		photo = &validation.Error{Field: "photo", Message: validation.MsgMissingPhoto}
	}
	return validation.First(
		validation.Phone(r.Phone),
		validation.Zip(r.Zip),
		validation.Required("first_name", r.FirstName, validation.MsgMissingFirstName),
		validation.Required("last_name", r.LastName, validation.MsgMissingLastName),
		birthday,
		validation.Required("address", r.Address, validation.MsgMissingAddress),
		validation.Required("city", r.City, validation.MsgMissingCity),
		validation.Required("state", r.State, validation.MsgMissingState),
		photo,
	)
}

// Register godoc
// @Summary Register a customer or chef
// @Description Creates an account from the signup form. Chefs must send the full account form and a photo and start pending review.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param user_type formData int true "1 customer, 2 chef"
// @Param photo formData file false "Profile photo"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Router /api/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if !bindForm(c, &req) {
		return
	}

	photo, photoErr := c.FormFile("photo")
	if respondValidation(c, req.validate(photoErr == nil)) {
		return
	}

	user := &models.User{
		Email:     req.Email,
		UserType:  req.UserType,
		Role:      models.RoleForUserType(req.UserType),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
		Birthday:  req.Birthday,
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		Zip:       req.Zip,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Allergens: draft.FromWireFormat(req.Allergens).ToWireFormat(),
	}
	if user.IsChef() {
		user.IsPending = 1
	}
	if err := user.SetPassword(req.Password); err != nil {
		respondInternal(c, err, "Failed to hash password")
		return
	}

	if photoErr == nil {
		url, err := ac.uploadPhoto(c.Request.Context(), photo)
		if err != nil {
			log.WithError(err).WithField("email", user.Email).Error("Failed to upload profile photo")
			respondError(c, http.StatusBadGateway, models.ErrUpstream, "We could not upload your photo. Please try again.")
			return
		}
		user.Photo = url
	}

	if err := ac.userService.CreateUser(user); err != nil {
		if errors.Is(err, services.ErrUserExists) {
			respondError(c, http.StatusConflict, models.ErrUserExists, "An account with this email already exists")
			return
		}
		respondInternal(c, err, "Failed to create user")
		return
	}

	log.WithFields(logrus.Fields{"user_id": user.ID, "user_type": user.UserType}).Info("User registered")
	ac.publish(c.Request.Context(), integrations.NewEvent(integrations.EventUserRegistered, user))
	respondOK(c, user)
}

func (ac *AuthController) uploadPhoto(ctx context.Context, photo *multipart.FileHeader) (string, error) {
	f, err := photo.Open()
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()
	return ac.photos.Upload(ctx, f, photo.Filename)
}

func (ac *AuthController) publish(ctx context.Context, e integrations.Event) {
	if err := ac.events.Publish(ctx, e); err != nil {
		log.WithError(err).WithField("event", e.Type).Warn("Failed to publish event")
	}
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token valid for 24 hours
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Failure 429 {object} models.Envelope
// @Router /api/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `form:"email"`
		Password string `form:"password"`
	}
	if !bindForm(c, &req) {
		return
	}

	user, err := ac.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, models.ErrInvalidCredentials, "Invalid email or password")
			return
		}
		respondInternal(c, err, "Failed to authenticate user")
		return
	}

	token, err := ac.tokens.Issue(user)
	if err != nil {
		respondInternal(c, err, "Failed to sign token")
		return
	}

	log.WithField("user_id", user.ID).Debug("User logged in")
	respondOK(c, gin.H{"token": token, "user": user})
}

// VerifyPhone godoc
// @Summary Send or check a phone verification code
// @Description Without code a six digit code is texted to phone. With code the code is checked and consumed.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param phone formData string true "Phone number"
// @Param code formData string false "Code received by SMS"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Router /api/verify_phone [post]
func (ac *AuthController) VerifyPhone(c *gin.Context) {
	var req struct {
		Phone string `form:"phone"`
		Code  string `form:"code"`
	}
	if !bindForm(c, &req) {
		return
	}
	if respondValidation(c, validation.Phone(req.Phone)) {
		return
	}
	phone := validation.PhoneDigits(req.Phone)
	ctx := c.Request.Context()

	if req.Code == "" {
		code, err := integrations.NewCode()
		if err != nil {
			respondInternal(c, err, "Failed to generate verification code")
			return
		}
		if err := ac.codes.Save(ctx, phone, code, integrations.CodeTTL); err != nil {
			respondInternal(c, err, "Failed to store verification code")
			return
		}
		if err := ac.sms.Send(ctx, phone, fmt.Sprintf("Your Taist verification code is %s", code)); err != nil {
			log.WithError(err).Error("Failed to send verification code")
			respondError(c, http.StatusBadGateway, models.ErrUpstream, "We could not send the code. Please try again.")
			return
		}
		respondOK(c, gin.H{"sent": true})
		return
	}

	err := ac.codes.Consume(ctx, phone, strings.TrimSpace(req.Code))
	switch {
	case err == nil:
		respondOK(c, gin.H{"verified": true})
	case errors.Is(err, integrations.ErrCodeMismatch):
		respondError(c, http.StatusBadRequest, models.ErrInvalidCode, "The code you entered is incorrect")
	case errors.Is(err, integrations.ErrCodeExpired):
		respondError(c, http.StatusBadRequest, models.ErrInvalidCode, "The code has expired. Please request a new one.")
	default:
		respondInternal(c, err, "Failed to check verification code")
	}
}
