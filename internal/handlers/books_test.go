package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

func bookForm(categoryID int, title, password string) url.Values {
	return url.Values{
		"title":          {title},
		"author":         {"Test Author"},
		"category_id":    {strconv.Itoa(categoryID)},
		"admin_password": {password},
	}
}

func TestBookCreateRedirectsToDetails(t *testing.T) {
	env := newTestEnv(t)
	catID := env.mustCategory(t, uniqueName("bk-cat"))

	title := uniqueName("bk-create")
	env.cleanBook(t, title)

	rec := env.postForm(t, "/books/new", bookForm(catID, title, testSecret))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303 (body: %s)", rec.Code, rec.Body.String())
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/books/") {
		t.Fatalf("unexpected redirect target %q", location)
	}

	// The redirect target must render the created book.
	rec = env.get(t, location)
	if rec.Code != http.StatusOK {
		t.Fatalf("details status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), title) {
		t.Error("details page missing the book title")
	}
}

func TestBookCreateWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	catID := env.mustCategory(t, uniqueName("bk-cat"))

	title := uniqueName("bk-denied")
	env.cleanBook(t, title)

	rec := env.postForm(t, "/books/new", bookForm(catID, title, "wrong"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Incorrect admin password") {
		t.Error("expected the password error message")
	}
	// The submitted title must be echoed back into the form.
	if !strings.Contains(body, title) {
		t.Error("expected submitted title echoed in the re-rendered form")
	}
}

func TestBookCreateValidationFailure(t *testing.T) {
	env := newTestEnv(t)
	catID := env.mustCategory(t, uniqueName("bk-cat"))

	form := bookForm(catID, "", testSecret)
	form.Set("author", "Kept Author")

	rec := env.postForm(t, "/books/new", form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Title is required and must be between 1 and 255 characters.") {
		t.Error("expected the title validation message")
	}
	if !strings.Contains(body, "Kept Author") {
		t.Error("expected submitted author echoed in the re-rendered form")
	}
}

func TestBookCreateHonorsReturnTo(t *testing.T) {
	env := newTestEnv(t)
	catID := env.mustCategory(t, uniqueName("bk-cat"))

	title := uniqueName("bk-return")
	env.cleanBook(t, title)

	form := bookForm(catID, title, testSecret)
	form.Set("return_to", "/dashboard")

	rec := env.postForm(t, "/books/new", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("redirect: got %q, want /dashboard", got)
	}
}

func TestBookCreateRejectsExternalReturnTo(t *testing.T) {
	env := newTestEnv(t)
	catID := env.mustCategory(t, uniqueName("bk-cat"))

	title := uniqueName("bk-external")
	env.cleanBook(t, title)

	form := bookForm(catID, title, testSecret)
	form.Set("return_to", "https://evil.example")

	rec := env.postForm(t, "/books/new", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); !strings.HasPrefix(got, "/books/") {
		t.Errorf("external return_to must fall back to details, got %q", got)
	}
}

func TestBookDetailsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/books/999999999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}

	rec = env.get(t, "/books/not-a-number")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status for non-numeric id: got %d, want 404", rec.Code)
	}
}

func TestBookUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	catID := env.mustCategory(t, uniqueName("bk-cat"))

	title := uniqueName("bk-lifecycle")
	renamed := uniqueName("bk-renamed")
	env.cleanBook(t, title)
	env.cleanBook(t, renamed)

	id, err := env.service.CreateBook(formToBookForm(bookForm(catID, title, testSecret)), testSecret)
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}
	path := "/books/" + strconv.Itoa(id)

	rec := env.postForm(t, path+"/edit", bookForm(catID, renamed, testSecret))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update status: got %d, want 303 (body: %s)", rec.Code, rec.Body.String())
	}

	rec = env.get(t, path)
	if !strings.Contains(rec.Body.String(), renamed) {
		t.Error("details page missing the renamed title")
	}

	rec = env.postForm(t, path+"/delete", url.Values{"admin_password": {testSecret}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status: got %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("delete redirect: got %q, want /dashboard", got)
	}

	rec = env.get(t, path)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted book details: got %d, want 404", rec.Code)
	}
}

func TestBookNewFormLoads(t *testing.T) {
	env := newTestEnv(t)
	catName := uniqueName("bk-select")
	env.mustCategory(t, catName)

	rec := env.get(t, "/books/new")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	// The category dropdown must list existing categories.
	if !strings.Contains(rec.Body.String(), catName) {
		t.Error("category dropdown missing a known category")
	}
}
