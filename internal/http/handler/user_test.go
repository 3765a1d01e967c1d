package handler_test

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamhub.app/server/internal/apperr"
	"teamhub.app/server/internal/http/handler"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/service"
)

var _ = Describe("UserHandler", func() {
	var (
		router  *gin.Engine
		authSvc *mockAuthService
		userSvc *mockUserService
	)

	BeforeEach(func() {
		router = gin.New()
		authSvc = &mockAuthService{}
		userSvc = &mockUserService{}
		h := handler.NewUserHandler(authSvc, userSvc)

		router.POST("/user/register", h.Register)
		router.POST("/user/login", h.Login)
		authed := router.Group("", asUser(alice))
		authed.GET("/me", h.Me)
		authed.PATCH("/settings/profile", h.UpdateProfile)
		authed.PATCH("/settings/admin", h.UpdateAccount)
		authed.DELETE("/settings/admin", h.DeleteAccount)
		authed.PATCH("/settings/security/password", h.ChangePassword)
		authed.PATCH("/settings/security/email", h.ChangeEmail)
	})

	Describe("Register", func() {
		valid := map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "s3cret-pass",
			"fullName": "Alice Smith",
		}

		It("returns 201 on success", func() {
			var got *service.RegisterParams
			authSvc.registerFn = func(_ context.Context, p *service.RegisterParams) (*model.User, error) {
				got = p
				return &model.User{ID: 1}, nil
			}

			w := serve(router, http.MethodPost, "/user/register", valid)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(decode(w)).To(Equal(map[string]any{"success": true, "message": "Registration successful"}))
			Expect(got.FullName).To(Equal("Alice Smith"))
		})

		It("returns 422 with field issues", func() {
			w := serve(router, http.MethodPost, "/user/register", map[string]string{
				"username": "al-",
				"email":    "nope",
			})

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			issues := decode(w)["error"].(map[string]any)
			Expect(issues).To(HaveKey("username"))
			Expect(issues).To(HaveKey("email"))
			Expect(issues).To(HaveKey("password"))
			Expect(issues).To(HaveKey("fullName"))
		})

		It("returns 400 on an empty body", func() {
			w := serve(router, http.MethodPost, "/user/register", nil)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)["error"]).To(Equal("Missing request body"))
		})

		It("returns 409 on a taken email", func() {
			authSvc.registerFn = func(_ context.Context, _ *service.RegisterParams) (*model.User, error) {
				return nil, apperr.NewConflict("An account with this email already exists")
			}

			w := serve(router, http.MethodPost, "/user/register", valid)

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(decode(w)["error"]).To(Equal("An account with this email already exists"))
		})
	})

	Describe("Login", func() {
		It("returns the access token", func() {
			w := serve(router, http.MethodPost, "/user/login", map[string]string{"email": "alice@example.com", "password": "pw"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)).To(Equal(map[string]any{"accessToken": "token"}))
		})

		It("returns 422 on wrong credentials", func() {
			authSvc.signInFn = func(_ context.Context, _, _ string) (*model.User, string, error) {
				return nil, "", service.ErrInvalidCredentials
			}

			w := serve(router, http.MethodPost, "/user/login", map[string]string{"email": "alice@example.com", "password": "pw"})

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(decode(w)["error"]).To(Equal("Incorrect email / password"))
		})

		It("hides unexpected failures", func() {
			authSvc.signInFn = func(_ context.Context, _, _ string) (*model.User, string, error) {
				return nil, "", context.DeadlineExceeded
			}

			w := serve(router, http.MethodPost, "/user/login", map[string]string{"email": "alice@example.com", "password": "pw"})

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(decode(w)["error"]).To(Equal("Internal server error"))
		})
	})

	It("returns the current user without secrets", func() {
		w := serve(router, http.MethodGet, "/me", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp["username"]).To(Equal("alice"))
		Expect(resp).NotTo(HaveKey("passwordHash"))
		Expect(resp).NotTo(HaveKey("refreshTokens"))
	})

	It("updates the profile for the authenticated user", func() {
		var gotID int64
		userSvc.updateProfileFn = func(_ context.Context, id int64, u service.ProfileUpdate) (*model.User, error) {
			gotID = id
			return &model.User{ID: id, FullName: *u.FullName}, nil
		}

		w := serve(router, http.MethodPatch, "/settings/profile", map[string]string{"fullName": "Alice Doe", "role": "admin"})

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(gotID).To(Equal(alice.ID))
		Expect(decode(w)["message"]).To(Equal("Full name updated successfully"))
	})

	It("re-issues the token after a username change", func() {
		w := serve(router, http.MethodPatch, "/settings/admin", map[string]string{"username": "alice-s"})

		Expect(w.Code).To(Equal(http.StatusCreated))
		resp := decode(w)
		Expect(resp["accessToken"]).To(Equal("reissued-token"))
		Expect(resp["message"]).To(Equal("Username updated successfully"))
		Expect(authSvc.issued).To(HaveLen(1))
		Expect(authSvc.issued[0].Username).To(Equal("alice-s"))
	})

	It("re-issues the token after an email change", func() {
		w := serve(router, http.MethodPatch, "/settings/security/email", map[string]string{"email": "a@new.example", "password": "s3cret-pass"})

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(decode(w)["accessToken"]).To(Equal("reissued-token"))
	})

	It("deletes the account", func() {
		var deleted int64
		userSvc.deleteAccountFn = func(_ context.Context, id int64) error {
			deleted = id
			return nil
		}

		w := serve(router, http.MethodDelete, "/settings/admin", nil)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(deleted).To(Equal(alice.ID))
	})

	It("maps a wrong current password to 409", func() {
		userSvc.changePasswordFn = func(_ context.Context, _ int64, _, _ string) (*model.User, error) {
			return nil, service.ErrIncorrectPassword
		}

		w := serve(router, http.MethodPatch, "/settings/security/password", map[string]string{
			"oldPassword": "guess-guess",
			"newPassword": "new-password",
		})

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(decode(w)["error"]).To(Equal("Incorrect password"))
	})
})
