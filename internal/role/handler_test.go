package role_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/backofficehq/admin-backend/internal"
	"github.com/backofficehq/admin-backend/internal/role"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockRoleService implements role.ServiceAPI for handler tests
type mockRoleService struct {
	listFn   func(search string) ([]role.RoleResponse, error)
	createFn func(dto role.StoreRoleDTO) (*role.RoleResponse, error)
	getFn    func(id int64) (*role.RoleResponse, error)
	updateFn func(id int64, dto role.UpdateRoleDTO) (*role.RoleResponse, error)
	deleteFn func(id int64) error
}

func (m *mockRoleService) List(search string) ([]role.RoleResponse, error) {
	return m.listFn(search)
}

func (m *mockRoleService) Create(dto role.StoreRoleDTO) (*role.RoleResponse, error) {
	return m.createFn(dto)
}

func (m *mockRoleService) Get(id int64) (*role.RoleResponse, error) {
	return m.getFn(id)
}

func (m *mockRoleService) Update(id int64, dto role.UpdateRoleDTO) (*role.RoleResponse, error) {
	return m.updateFn(id, dto)
}

func (m *mockRoleService) Delete(id int64) error {
	return m.deleteFn(id)
}

func newRoleRouter(handler *role.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/roles", handler.Index)
	router.Post("/roles", handler.Store)
	router.Get("/roles/{id}", handler.Show)
	router.Put("/roles/{id}", handler.Update)
	router.Delete("/roles/{id}", handler.Destroy)
	return router
}

var _ = Describe("Role Handler", func() {
	var (
		service *mockRoleService
		router  *chi.Mux
	)

	BeforeEach(func() {
		service = &mockRoleService{}
		router = newRoleRouter(role.NewHandler(service))
	})

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	Describe("GET /roles", func() {
		It("should wrap roles in the success envelope", func() {
			service.listFn = func(search string) ([]role.RoleResponse, error) {
				Expect(search).To(Equal("edi"))
				return []role.RoleResponse{{
					ID:               2,
					Name:             "Editor",
					Permissions:      []role.PermissionResponse{{ID: 1, Name: "users.index"}},
					PermissionsPluck: []string{"users.index"},
				}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/roles?search=edi", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body["success"]).To(BeTrue())
			Expect(body["message"]).To(Equal("Roles obtenidos correctamente"))

			data := body["data"].(map[string]interface{})
			roles := data["roles"].([]interface{})
			Expect(roles).To(HaveLen(1))
			first := roles[0].(map[string]interface{})
			Expect(first["name"]).To(Equal("Editor"))
			Expect(first["permissions_pluck"]).To(Equal([]interface{}{"users.index"}))
		})
	})

	Describe("POST /roles", func() {
		It("should return 201 with the created role", func() {
			service.createFn = func(dto role.StoreRoleDTO) (*role.RoleResponse, error) {
				Expect(dto.Name).To(Equal("editor"))
				Expect(dto.Permissions).To(Equal([]string{"users.index"}))
				return &role.RoleResponse{ID: 1, Name: "Editor", PermissionsPluck: []string{"users.index"}}, nil
			}

			payload, _ := json.Marshal(map[string]interface{}{
				"name":        "editor",
				"permissions": []string{"users.index"},
			})
			req := httptest.NewRequest(http.MethodPost, "/roles", bytes.NewReader(payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			body := decode(rec)
			Expect(body["success"]).To(BeTrue())
			Expect(body["message"]).To(Equal("Rol creado correctamente"))

			data := body["data"].(map[string]interface{})
			created := data["role"].(map[string]interface{})
			Expect(created["name"]).To(Equal("Editor"))
		})

		It("should surface validation errors as 422 with field messages", func() {
			service.createFn = func(dto role.StoreRoleDTO) (*role.RoleResponse, error) {
				return nil, internal.NewValidationFieldError("permissions", "Debe seleccionar al menos un permiso.", internal.ErrCodeValidationFailed)
			}

			payload, _ := json.Marshal(map[string]interface{}{"name": "editor"})
			req := httptest.NewRequest(http.MethodPost, "/roles", bytes.NewReader(payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			body := decode(rec)
			Expect(body["success"]).To(BeFalse())

			fieldErrors := body["errors"].(map[string]interface{})
			Expect(fieldErrors["permissions"]).To(Equal([]interface{}{"Debe seleccionar al menos un permiso."}))
		})

		It("should collapse unexpected errors to a generic 500 message", func() {
			service.createFn = func(dto role.StoreRoleDTO) (*role.RoleResponse, error) {
				return nil, assertionFailure{}
			}

			payload, _ := json.Marshal(map[string]interface{}{
				"name":        "editor",
				"permissions": []string{"users.index"},
			})
			req := httptest.NewRequest(http.MethodPost, "/roles", bytes.NewReader(payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			body := decode(rec)
			Expect(body["success"]).To(BeFalse())
			Expect(body["message"]).To(Equal("Ocurrió un error al crear el rol"))
			Expect(body["message"]).NotTo(ContainSubstring("driver"))
		})

		It("should reject a malformed body with 400", func() {
			req := httptest.NewRequest(http.MethodPost, "/roles", bytes.NewReader([]byte("{not json")))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /roles/{id}", func() {
		It("should return the role", func() {
			service.getFn = func(id int64) (*role.RoleResponse, error) {
				Expect(id).To(Equal(int64(7)))
				return &role.RoleResponse{ID: 7, Name: "Editor"}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/roles/7", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body["message"]).To(Equal("Rol obtenido correctamente"))
		})

		It("should return 404 for a missing role", func() {
			service.getFn = func(id int64) (*role.RoleResponse, error) {
				return nil, internal.ErrRoleNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/roles/999", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			body := decode(rec)
			Expect(body["message"]).To(Equal("Rol no encontrado"))
		})

		It("should return 400 for a non-numeric id", func() {
			req := httptest.NewRequest(http.MethodGet, "/roles/abc", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PUT /roles/{id}", func() {
		It("should return the updated role", func() {
			service.updateFn = func(id int64, dto role.UpdateRoleDTO) (*role.RoleResponse, error) {
				return &role.RoleResponse{ID: id, Name: "Moderador"}, nil
			}

			payload, _ := json.Marshal(map[string]interface{}{
				"name":        "moderador",
				"permissions": []string{"users.index"},
			})
			req := httptest.NewRequest(http.MethodPut, "/roles/3", bytes.NewReader(payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body["message"]).To(Equal("Rol actualizado correctamente"))
		})
	})

	Describe("DELETE /roles/{id}", func() {
		It("should return the success envelope with null data", func() {
			service.deleteFn = func(id int64) error { return nil }

			req := httptest.NewRequest(http.MethodDelete, "/roles/3", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body["message"]).To(Equal("Rol eliminado correctamente"))
			Expect(body).To(HaveKey("data"))
			Expect(body["data"]).To(BeNil())
		})

		It("should return 404 for a missing role", func() {
			service.deleteFn = func(id int64) error { return internal.ErrRoleNotFound }

			req := httptest.NewRequest(http.MethodDelete, "/roles/999", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})

// assertionFailure is a stand-in for an unexpected infrastructure error.
type assertionFailure struct{}

func (assertionFailure) Error() string { return "driver: connection refused" }
