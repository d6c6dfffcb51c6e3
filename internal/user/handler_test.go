package user_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/backofficehq/admin-backend/internal"
	"github.com/backofficehq/admin-backend/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockUserService implements user.ServiceAPI for handler tests
type mockUserService struct {
	listFn   func(search string) ([]user.UserResponse, error)
	createFn func(dto user.CreateUserDTO) (*user.UserResponse, error)
	getFn    func(id int64) (*user.UserResponse, error)
	updateFn func(id int64, dto user.UpdateUserDTO) (*user.UserResponse, error)
	deleteFn func(id int64) error
}

func (m *mockUserService) List(search string) ([]user.UserResponse, error) { return m.listFn(search) }
func (m *mockUserService) Create(dto user.CreateUserDTO) (*user.UserResponse, error) {
	return m.createFn(dto)
}
func (m *mockUserService) Get(id int64) (*user.UserResponse, error) { return m.getFn(id) }
func (m *mockUserService) Update(id int64, dto user.UpdateUserDTO) (*user.UserResponse, error) {
	return m.updateFn(id, dto)
}
func (m *mockUserService) Delete(id int64) error { return m.deleteFn(id) }

func newUserRouter(handler *user.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/users", handler.Index)
	router.Post("/users", handler.Store)
	router.Get("/users/{id}", handler.Show)
	router.Put("/users/{id}", handler.Update)
	router.Delete("/users/{id}", handler.Destroy)
	return router
}

func multipartBody(fields map[string]string, avatarName string, avatarContent []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}
	if avatarName != "" {
		part, _ := writer.CreateFormFile("avatar", avatarName)
		_, _ = part.Write(avatarContent)
	}
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

var _ = Describe("User Handler", func() {
	var (
		service *mockUserService
		router  *chi.Mux
	)

	BeforeEach(func() {
		service = &mockUserService{}
		router = newUserRouter(user.NewHandler(service))
	})

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	Describe("GET /users", func() {
		It("should wrap users in the success envelope", func() {
			service.listFn = func(search string) ([]user.UserResponse, error) {
				return []user.UserResponse{{ID: 1, Name: "Ana", FullName: "Ana García"}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body["success"]).To(BeTrue())
			Expect(body["message"]).To(Equal("Usuarios obtenidos correctamente"))

			data := body["data"].(map[string]interface{})
			users := data["users"].([]interface{})
			Expect(users).To(HaveLen(1))
		})
	})

	Describe("POST /users", func() {
		It("should parse the multipart form into the create DTO", func() {
			var captured user.CreateUserDTO
			service.createFn = func(dto user.CreateUserDTO) (*user.UserResponse, error) {
				captured = dto
				return &user.UserResponse{ID: 1, Name: dto.Name, Email: dto.Email}, nil
			}

			body, contentType := multipartBody(map[string]string{
				"name":                  "Ana",
				"surname":               "García",
				"email":                 "ana@example.com",
				"password":              "secret-password",
				"password_confirmation": "secret-password",
				"role_id":               "2",
				"sucursale_id":          "1",
				"type_document":         "DNI",
				"number_document":       "12345678",
				"gender":                "2",
				"phone":                 "999888777",
			}, "photo.png", []byte("image-bytes"))

			req := httptest.NewRequest(http.MethodPost, "/users", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(decode(rec)["message"]).To(Equal("Usuario creado correctamente"))

			Expect(captured.Name).To(Equal("Ana"))
			Expect(captured.RoleID).To(Equal(int64(2)))
			Expect(captured.SucursaleID).To(Equal(int64(1)))
			Expect(captured.Avatar).NotTo(BeNil())
			Expect(captured.Avatar.Filename).To(Equal("photo.png"))

			content, err := io.ReadAll(captured.Avatar.Content)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("image-bytes"))
		})

		It("should work without an avatar", func() {
			service.createFn = func(dto user.CreateUserDTO) (*user.UserResponse, error) {
				Expect(dto.Avatar).To(BeNil())
				return &user.UserResponse{ID: 1}, nil
			}

			body, contentType := multipartBody(map[string]string{"name": "Ana"}, "", nil)
			req := httptest.NewRequest(http.MethodPost, "/users", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
		})

		It("should surface validation errors as 422", func() {
			service.createFn = func(dto user.CreateUserDTO) (*user.UserResponse, error) {
				return nil, internal.NewValidationFieldError("email", "El correo no es válido.", internal.ErrCodeValidationFailed)
			}

			body, contentType := multipartBody(map[string]string{"email": "nope"}, "", nil)
			req := httptest.NewRequest(http.MethodPost, "/users", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			responseBody := decode(rec)
			fieldErrors := responseBody["errors"].(map[string]interface{})
			Expect(fieldErrors).To(HaveKey("email"))
		})
	})

	Describe("PUT /users/{id}", func() {
		It("should map only present form fields onto the update DTO", func() {
			var captured user.UpdateUserDTO
			service.updateFn = func(id int64, dto user.UpdateUserDTO) (*user.UserResponse, error) {
				Expect(id).To(Equal(int64(5)))
				captured = dto
				return &user.UserResponse{ID: id}, nil
			}

			body, contentType := multipartBody(map[string]string{
				"name":    "Anita",
				"role_id": "2",
			}, "", nil)
			req := httptest.NewRequest(http.MethodPut, "/users/5", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)["message"]).To(Equal("Usuario actualizado correctamente"))

			Expect(captured.Name).NotTo(BeNil())
			Expect(*captured.Name).To(Equal("Anita"))
			Expect(captured.RoleID).NotTo(BeNil())
			Expect(*captured.RoleID).To(Equal(int64(2)))
			Expect(captured.Surname).To(BeNil())
			Expect(captured.Email).To(BeNil())
			Expect(captured.Password).To(BeNil())
			Expect(captured.Avatar).To(BeNil())
		})

		It("should return 404 for a missing user", func() {
			service.updateFn = func(id int64, dto user.UpdateUserDTO) (*user.UserResponse, error) {
				return nil, internal.ErrUserNotFound
			}

			body, contentType := multipartBody(map[string]string{"name": "Anita"}, "", nil)
			req := httptest.NewRequest(http.MethodPut, "/users/999", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decode(rec)["message"]).To(Equal("Usuario no encontrado"))
		})
	})

	Describe("DELETE /users/{id}", func() {
		It("should return the success envelope with null data", func() {
			service.deleteFn = func(id int64) error { return nil }

			req := httptest.NewRequest(http.MethodDelete, "/users/3", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body["message"]).To(Equal("Usuario eliminado correctamente"))
			Expect(body["data"]).To(BeNil())
		})
	})
})
