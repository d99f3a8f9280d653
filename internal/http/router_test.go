package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/database"
	"bookstore/internal/database/books"
	"bookstore/internal/database/categories"
	"bookstore/internal/database/contacts"
	"bookstore/internal/database/users"
	"bookstore/internal/entities"
	"bookstore/internal/tasks"
	"bookstore/internal/thumbnails"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "s3cret"
)

type testAPI struct {
	router     *gin.Engine
	db         *database.Database
	books      *books.Repository
	categories *categories.Repository
	contacts   *contacts.Repository
}

func setupAPI(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bookRepo := books.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	contactRepo := contacts.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)

	_, err = userRepo.CreateAdmin(testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database:     db,
		Books:        bookRepo,
		Categories:   categoryRepo,
		Contacts:     contactRepo,
		Users:        userRepo,
		ItemsPerPage: 10,
		Version:      "test",
	})

	return &testAPI{
		router:     router,
		db:         db,
		books:      bookRepo,
		categories: categoryRepo,
		contacts:   contactRepo,
	}
}

func (api *testAPI) request(t *testing.T, method, path string, body any, authenticated bool) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.SetBasicAuth(testAdminEmail, testAdminPassword)
	}

	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, req)
	return recorder
}

func (api *testAPI) createCategory(t *testing.T, name string, parentID *uint) *entities.Category {
	category := &entities.Category{Name: name, ParentID: parentID}
	require.NoError(t, api.categories.Create(category))
	return category
}

func (api *testAPI) createBook(t *testing.T, title string, cats ...*entities.Category) *entities.Book {
	book := &entities.Book{Title: title, Status: entities.DefaultStatus, Authors: []string{}}
	require.NoError(t, api.books.Create(book))
	if len(cats) > 0 {
		require.NoError(t, api.books.ReplaceCategories(book, cats))
	}
	return book
}

func TestHealthEndpoint(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodGet, "/health", nil, false)

	assert.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])
}

func TestCategoriesIndex_SortedByBookCountDesc(t *testing.T) {
	api := setupAPI(t)

	small := api.createCategory(t, "Small", nil)
	big := api.createCategory(t, "Big", nil)
	child := api.createCategory(t, "Big Child", &big.ID)

	api.createBook(t, "Only One", small)
	api.createBook(t, "First", big)
	api.createBook(t, "Second", child) // counted into Big recursively

	resp := api.request(t, http.MethodGet, "/api/categories", nil, false)
	assert.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Categories []CategoryWithCount `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))

	// Only top-level categories appear, most populated first.
	require.Len(t, payload.Categories, 2)
	assert.Equal(t, "Big", payload.Categories[0].Category.Name)
	assert.Equal(t, int64(2), payload.Categories[0].BookCount)
	assert.Equal(t, "Small", payload.Categories[1].Category.Name)
	assert.Equal(t, int64(1), payload.Categories[1].BookCount)
}

func TestCategoryShow_WithChildrenListsChildren(t *testing.T) {
	api := setupAPI(t)

	parent := api.createCategory(t, "Parent", nil)
	api.createCategory(t, "Kid", &parent.ID)

	resp := api.request(t, http.MethodGet, "/api/categories/"+itoa(parent.ID), nil, false)
	assert.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Children []entities.Category `json:"children"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.Len(t, payload.Children, 1)
	assert.Equal(t, "Kid", payload.Children[0].Name)
}

func TestCategoryShow_LeafListsBooks(t *testing.T) {
	api := setupAPI(t)

	leaf := api.createCategory(t, "Leaf", nil)
	api.createBook(t, "Inside", leaf)
	api.createBook(t, "Also Inside", leaf)

	resp := api.request(t, http.MethodGet, "/api/categories/"+itoa(leaf.ID)+"?search=Also", nil, false)
	assert.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Pagination books.Page `json:"pagination"`
		Search     string     `json:"search"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "Also", payload.Search)
	require.Len(t, payload.Pagination.Items, 1)
	assert.Equal(t, "Also Inside", payload.Pagination.Items[0].Title)
	assert.Equal(t, int64(1), payload.Pagination.TotalItems)
}

func TestCategoryShow_NotFound(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodGet, "/api/categories/999", nil, false)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCategoryShow_InvalidID(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodGet, "/api/categories/abc", nil, false)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBookShow_WithRelated(t *testing.T) {
	api := setupAPI(t)

	category := api.createCategory(t, "Fiction", nil)
	book := api.createBook(t, "Main", category)
	api.createBook(t, "Related", category)

	resp := api.request(t, http.MethodGet, "/api/books/"+itoa(book.ID), nil, false)
	assert.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Book         entities.Book   `json:"book"`
		RelatedBooks []entities.Book `json:"related_books"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "Main", payload.Book.Title)
	require.Len(t, payload.RelatedBooks, 1)
	assert.Equal(t, "Related", payload.RelatedBooks[0].Title)
}

func TestBookShow_NotFound(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodGet, "/api/books/999", nil, false)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestContactSubmit(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodPost, "/api/contact", gin.H{
		"email":   "visitor@example.com",
		"name":    "Visitor",
		"message": "Is this in stock?",
	}, false)
	assert.Equal(t, http.StatusCreated, resp.Code)

	messages, err := api.contacts.List(10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "visitor@example.com", messages[0].Email)
}

func TestContactSubmit_Validation(t *testing.T) {
	api := setupAPI(t)

	// Missing message
	resp := api.request(t, http.MethodPost, "/api/contact", gin.H{"email": "a@example.com"}, false)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Invalid email
	resp = api.request(t, http.MethodPost, "/api/contact", gin.H{"email": "not-an-email", "message": "hi"}, false)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	messages, err := api.contacts.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAdmin_RequiresAuth(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodPost, "/api/admin/categories", gin.H{"name": "X"}, false)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Header().Get("WWW-Authenticate"), "Basic")
}

func TestAdmin_RejectsWrongPassword(t *testing.T) {
	api := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contact-messages", nil)
	req.SetBasicAuth(testAdminEmail, "wrong")
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdmin_CreateCategory(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodPost, "/api/admin/categories", gin.H{"name": "New Arrivals"}, true)
	assert.Equal(t, http.StatusCreated, resp.Code)

	var created entities.Category
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "New Arrivals", created.Name)
}

func TestAdmin_CreateBook(t *testing.T) {
	api := setupAPI(t)

	category := api.createCategory(t, "Fiction", nil)

	resp := api.request(t, http.MethodPost, "/api/admin/books", gin.H{
		"title":        "Brand New",
		"isbn":         "1234567890123",
		"authors":      []string{"Jane Roe"},
		"category_ids": []uint{category.ID},
	}, true)
	assert.Equal(t, http.StatusCreated, resp.Code)

	book, err := api.books.FindByISBN("1234567890123")
	require.NoError(t, err)
	assert.Equal(t, "Brand New", book.Title)
	assert.Equal(t, entities.DefaultStatus, book.Status)

	loaded, err := api.books.GetByID(book.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Categories, 1)
	assert.Equal(t, "Fiction", loaded.Categories[0].Name)
}

func TestAdmin_CreateBook_UnknownCategory(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodPost, "/api/admin/books", gin.H{
		"title":        "Orphan",
		"category_ids": []uint{999},
	}, true)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdmin_CreateBook_TitleRequired(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodPost, "/api/admin/books", gin.H{"isbn": "1"}, true)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdmin_UpdateBook(t *testing.T) {
	api := setupAPI(t)

	oldCat := api.createCategory(t, "Old", nil)
	newCat := api.createCategory(t, "New", nil)
	book := api.createBook(t, "Before", oldCat)

	resp := api.request(t, http.MethodPut, "/api/admin/books/"+itoa(book.ID), gin.H{
		"title":        "After",
		"category_ids": []uint{newCat.ID},
	}, true)
	assert.Equal(t, http.StatusOK, resp.Code)

	loaded, err := api.books.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", loaded.Title)
	require.Len(t, loaded.Categories, 1)
	assert.Equal(t, "New", loaded.Categories[0].Name)
}

func TestAdmin_UpdateBook_NotFound(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodPut, "/api/admin/books/999", gin.H{"title": "X"}, true)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAdmin_DeleteBook(t *testing.T) {
	api := setupAPI(t)

	book := api.createBook(t, "Doomed")

	resp := api.request(t, http.MethodDelete, "/api/admin/books/"+itoa(book.ID), nil, true)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	_, err := api.books.GetByID(book.ID)
	assert.Error(t, err)
}

func TestAdmin_ListAndDeleteContactMessages(t *testing.T) {
	api := setupAPI(t)

	message := entities.ContactMessage{Email: "visitor@example.com", Message: "hi"}
	require.NoError(t, api.contacts.Create(&message))

	resp := api.request(t, http.MethodGet, "/api/admin/contact-messages", nil, true)
	assert.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Messages []entities.ContactMessage `json:"messages"`
		Count    int                       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Count)

	resp = api.request(t, http.MethodDelete, "/api/admin/contact-messages/"+itoa(message.ID), nil, true)
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestAdmin_RefetchThumbnails_QueueDisabled(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodPost, "/api/admin/tasks/refetch-thumbnails", nil, true)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestAdmin_TaskStatus_QueueDisabled(t *testing.T) {
	api := setupAPI(t)

	resp := api.request(t, http.MethodGet, "/api/admin/tasks/some-id", nil, true)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

// setupAPIWithTasks wires a live task client into the router. The client is
// never started, so enqueued tasks stay pending and their status can be
// observed deterministically.
func setupAPIWithTasks(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "api.db")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bookRepo := books.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	contactRepo := contacts.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)

	_, err = userRepo.CreateAdmin(testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	mirror, err := thumbnails.NewMirror(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	taskCfg := tasks.DefaultConfig()
	taskCfg.Workers = 1
	taskClient, err := tasks.NewClient(dbPath, taskCfg)
	require.NoError(t, err)
	t.Cleanup(func() { taskClient.Close() })

	taskClient.Register(tasks.NewRefetchThumbnailsQueue(bookRepo, mirror))

	router := NewRouter(RouterConfig{
		Database:     db,
		Books:        bookRepo,
		Categories:   categoryRepo,
		Contacts:     contactRepo,
		Users:        userRepo,
		TaskClient:   taskClient,
		ItemsPerPage: 10,
		Version:      "test",
	})

	return &testAPI{
		router:     router,
		db:         db,
		books:      bookRepo,
		categories: categoryRepo,
		contacts:   contactRepo,
	}
}

func TestAdmin_RefetchThumbnails_EnqueuesQueryableTask(t *testing.T) {
	api := setupAPIWithTasks(t)

	resp := api.request(t, http.MethodPost, "/api/admin/tasks/refetch-thumbnails", nil, true)
	require.Equal(t, http.StatusAccepted, resp.Code)

	var accepted struct {
		TaskID string `json:"task_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.TaskID)

	resp = api.request(t, http.MethodGet, "/api/admin/tasks/"+accepted.TaskID, nil, true)
	assert.Equal(t, http.StatusOK, resp.Code)

	var status struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.Equal(t, accepted.TaskID, status.ID)
	assert.Equal(t, "pending", status.Status)
}

func TestAdmin_TaskStatus_UnknownID(t *testing.T) {
	api := setupAPIWithTasks(t)

	resp := api.request(t, http.MethodGet, "/api/admin/tasks/no-such-task", nil, true)
	assert.Equal(t, http.StatusOK, resp.Code)

	var status struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.Equal(t, "not_found", status.Status)
}

func itoa(id uint) string {
	return strconv.Itoa(int(id))
}
