package httpserver

import (
	"bytes"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/Skotchmaster/docs_gateway/internal/filesapi"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate_RoleGate(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/create", "user@b.com")
	s.createUser(t, "/user/register-admin", "admin@b.com")
	user, _ := s.login(t, "user@b.com")
	admin, _ := s.login(t, "admin@b.com")

	body := `{"category":{"name":"Theses"}}`

	rec := s.do(bearer(jsonRequest(http.MethodPost, "/category/create", body), user.AccessToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only ADMIN role can create categories", decode(t, rec)["message"])
	assert.Zero(t, s.files.count())

	s.files.respond(http.StatusCreated, `{"id":11,"name":"Theses"}`)
	rec = s.do(bearer(jsonRequest(http.MethodPost, "/category/create", body), admin.AccessToken))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Category created successfully", out["message"])
	assert.Equal(t, map[string]any{"id": float64(11), "name": "Theses"}, out["data"])

	call := s.files.last(t)
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/category/create", call.path)
	assert.JSONEq(t, `{"category":{"name":"Theses"},"role":"ADMINISTRATOR"}`, string(call.body))
}

func TestCategory_ValidationBeforeRole(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/create", "user@b.com")
	user, _ := s.login(t, "user@b.com")

	tests := []struct {
		name string
		req  *http.Request
		msg  string
	}{
		{"create without category", jsonRequest(http.MethodPost, "/category/create", `{}`), "category is required"},
		{"create without name", jsonRequest(http.MethodPost, "/category/create", `{"category":{}}`), "category name is required"},
		{"update without id", jsonRequest(http.MethodPut, "/category/update", `{"category":{"name":"x"}}`), "category id and name are required"},
		{"delete without id", httptest.NewRequest(http.MethodDelete, "/category/delete", nil), "id parameter is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(bearer(tt.req, user.AccessToken))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			out := decode(t, rec)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.msg, out["message"])
		})
	}
	assert.Zero(t, s.files.count())
}

func TestCategoryDelete_ForwardsIDAndRole(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/register-admin", "admin@b.com")
	admin, _ := s.login(t, "admin@b.com")

	s.files.respond(http.StatusNotFound, `{"message":"category not found"}`)
	rec := s.do(bearer(httptest.NewRequest(http.MethodDelete, "/category/delete?id=9", nil), admin.AccessToken))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Failed to delete category", out["message"])
	assert.Equal(t, map[string]any{"message": "category not found"}, out["error"])

	q, err := url.ParseQuery(s.files.last(t).query)
	require.NoError(t, err)
	assert.Equal(t, "9", q.Get("id"))
	assert.Equal(t, "ADMINISTRATOR", q.Get("role"))
}

func TestCategoryGetAll_IsPublic(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.files.respond(http.StatusOK, `[{"id":1}]`)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/category/get-all", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{map[string]any{"id": float64(1)}}, decode(t, rec)["data"])
}

func TestProtectedRoutes_RequireBearer(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	for _, req := range []*http.Request{
		jsonRequest(http.MethodPost, "/category/create", `{"category":{"name":"x"}}`),
		httptest.NewRequest(http.MethodGet, "/files/get-all?role=PROFESSOR", nil),
		httptest.NewRequest(http.MethodGet, "/files/get-user-id", nil),
	} {
		rec := s.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.URL.Path)
		out := decode(t, rec)
		assert.Equal(t, false, out["successful"])
		assert.Equal(t, "Unauthorized. Authorization header is required.", out["message"])
	}

	rec := s.do(bearer(httptest.NewRequest(http.MethodGet, "/files/get-user-id", nil), "not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, s.files.count())
}

func TestFilesGetAll_RoleParameter(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/create", "user@b.com")
	user, _ := s.login(t, "user@b.com")

	rec := s.do(bearer(httptest.NewRequest(http.MethodGet, "/files/get-all", nil), user.AccessToken))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "role parameter is required", decode(t, rec)["message"])

	rec = s.do(bearer(httptest.NewRequest(http.MethodGet, "/files/get-all?role=STUDENT", nil), user.AccessToken))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, s.files.count())

	rec = s.do(bearer(httptest.NewRequest(http.MethodGet, "/files/get-all?role=PROFESSOR", nil), user.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Files retrieved successfully", decode(t, rec)["message"])
	assert.Equal(t, "role=PROFESSOR", s.files.last(t).query)
}

func TestFilesGet_RequiresFileIDAndRole(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/create", "user@b.com")
	user, _ := s.login(t, "user@b.com")

	rec := s.do(bearer(httptest.NewRequest(http.MethodGet, "/files/get?role=PROFESSOR", nil), user.AccessToken))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file_id and role parameters are required", decode(t, rec)["message"])

	rec = s.do(bearer(httptest.NewRequest(http.MethodGet, "/files/get?file_id=f1&role=ADMINISTRATOR", nil), user.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	q, err := url.ParseQuery(s.files.last(t).query)
	require.NoError(t, err)
	assert.Equal(t, "f1", q.Get("file_id"))
	assert.Equal(t, "ADMINISTRATOR", q.Get("role"))
}

func TestFilesOwnerScoped(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/create", "user@b.com")
	user, _ := s.login(t, "user@b.com")

	rec := s.do(bearer(httptest.NewRequest(http.MethodGet, "/files/get-user-id", nil), user.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/files/get-user-id", s.files.last(t).path)
	assert.Equal(t, "user_id="+user.ID, s.files.last(t).query)

	rec = s.do(bearer(httptest.NewRequest(http.MethodDelete, "/files/delete?file_id=f1", nil), user.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	q, err := url.ParseQuery(s.files.last(t).query)
	require.NoError(t, err)
	assert.Equal(t, user.ID, q.Get("user_id"))
	assert.Equal(t, "f1", q.Get("file_id"))
}

func uploadRequest(t *testing.T, target, contentType string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if contentType != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="doc.pdf"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestFilesUpload(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/create", "user@b.com")
	user, _ := s.login(t, "user@b.com")

	tests := []struct {
		name   string
		ctype  string
		fields map[string]string
		msg    string
	}{
		{name: "no file", fields: map[string]string{"category_id": "c1"}, msg: "No file uploaded"},
		{name: "not a pdf", ctype: "image/png", fields: map[string]string{"category_id": "c1"}, msg: "Only PDF files are allowed"},
		{name: "no category", ctype: "application/pdf", fields: map[string]string{}, msg: "category_id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(bearer(uploadRequest(t, "/files/upload", tt.ctype, tt.fields), user.AccessToken))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.msg, decode(t, rec)["message"])
		})
	}
	require.Zero(t, s.files.count())

	s.files.respond(http.StatusCreated, `{"id":"f1"}`)
	rec := s.do(bearer(uploadRequest(t, "/files/upload", "application/pdf",
		map[string]string{"category_id": "c1", "description": "thesis"}), user.AccessToken))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "File uploaded successfully", decode(t, rec)["message"])

	call := s.files.last(t)
	assert.Equal(t, "/files/upload", call.path)

	_, params, err := mime.ParseMediaType(call.ctype)
	require.NoError(t, err)
	form, err := multipart.NewReader(bytes.NewReader(call.body), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	require.Len(t, form.File["file"], 1)
	require.Len(t, form.Value["file"], 1)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(form.Value["file"][0]), &meta))
	assert.Equal(t, user.ID, meta["user_id"])
	assert.Equal(t, "c1", meta["category_id"])
	assert.Equal(t, "thesis", meta["description"])
}

func TestFilesUpdate_MetadataOnly(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/create", "user@b.com")
	user, _ := s.login(t, "user@b.com")

	req := uploadRequest(t, "/files/update?file_id=f7", "", map[string]string{"description": "v2"})
	req.Method = http.MethodPut
	rec := s.do(bearer(req, user.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	call := s.files.last(t)
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "file_id=f7", call.query)
}

func TestFilesUpdate_JSONBody(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.createUser(t, "/user/create", "user@b.com")
	user, _ := s.login(t, "user@b.com")

	rec := s.do(bearer(jsonRequest(http.MethodPut, "/files/update?file_id=f1",
		`{"description":"d","category_id":"c9"}`), user.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	call := s.files.last(t)
	_, params, err := mime.ParseMediaType(call.ctype)
	require.NoError(t, err)
	form, err := multipart.NewReader(bytes.NewReader(call.body), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Empty(t, form.File["file"])
	require.Len(t, form.Value["file"], 1)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(form.Value["file"][0]), &meta))
	assert.Equal(t, "f1", meta["file_id"])
	assert.Equal(t, "d", meta["description"])
	assert.Equal(t, "c9", meta["category_id"])
	assert.Equal(t, user.ID, meta["user_id"])
}

func TestUpstreamUnreachable(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	s.e.GET("/probe", (&CategoryHTTP{Files: filesapi.NewClient(dead.URL)}).GetAll)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, false, out["success"])
	assert.NotEmpty(t, out["error"])
}
