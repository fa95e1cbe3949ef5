package filestorage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLocalStorage_SaveListDelete(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store, err := NewLocalStorage(base, "")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	location, err := store.Save(ctx, CategoryEmployees, "timesheet_2024-03-01_2024-03-31.csv", []byte("a,b\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if location != filepath.Join(CategoryEmployees, "timesheet_2024-03-01_2024-03-31.csv") {
		t.Errorf("unexpected location %q", location)
	}

	older := filepath.Join(base, CategoryEmployees, "older.pdf")
	if err := os.WriteFile(older, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	files, err := store.List(ctx, CategoryEmployees)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 || files[0].Name != "timesheet_2024-03-01_2024-03-31.csv" || files[1].Name != "older.pdf" {
		t.Fatalf("unexpected listing %+v", files)
	}

	students, err := store.List(ctx, CategoryStudents)
	if err != nil || len(students) != 0 {
		t.Fatalf("students listing: %v %+v", err, students)
	}

	if err := store.Delete(ctx, CategoryEmployees, "older.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, CategoryEmployees, "older.pdf"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("second Delete: got %v, want ErrFileNotFound", err)
	}
}

func TestLocalStorage_BaseURL(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "https://files.pca.local/reports/")
	if err != nil {
		t.Fatal(err)
	}
	location, err := store.Save(context.Background(), CategoryStudents, "care.pdf", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if location != "https://files.pca.local/reports/students/care.pdf" {
		t.Errorf("unexpected location %q", location)
	}
}

func TestValidateKey(t *testing.T) {
	for name, testcase := range map[string]struct {
		category string
		file     string
		valid    bool
	}{
		"employees":        {category: CategoryEmployees, file: "a.pdf", valid: true},
		"students":         {category: CategoryStudents, file: "a.csv", valid: true},
		"unknown category": {category: "uploads", file: "a.pdf"},
		"traversal":        {category: CategoryStudents, file: "../a.pdf"},
		"hidden":           {category: CategoryStudents, file: ".env"},
		"empty":            {category: CategoryStudents, file: ""},
	} {
		t.Run(name, func(t *testing.T) {
			err := validateKey(testcase.category, testcase.file)
			if testcase.valid && err != nil {
				t.Errorf("unexpected error %v", err)
			}
			if !testcase.valid && !errors.Is(err, ErrInvalidName) {
				t.Errorf("got %v, want ErrInvalidName", err)
			}
		})
	}
}

type recordingStore struct {
	saved   []string
	deleted []string
	saveErr error
	delErr  error
}

func (r *recordingStore) Save(_ context.Context, category, name string, _ []byte) (string, error) {
	if r.saveErr != nil {
		return "", r.saveErr
	}
	r.saved = append(r.saved, category+"/"+name)
	return "archive/" + category + "/" + name, nil
}

func (r *recordingStore) List(context.Context, string) ([]FileInfo, error) { return nil, nil }

func (r *recordingStore) Delete(_ context.Context, category, name string) error {
	r.deleted = append(r.deleted, category+"/"+name)
	return r.delErr
}

func TestMirroredStorage(t *testing.T) {
	ctx := context.Background()
	primary, err := NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}

	if got := NewMirroredStorage(primary, nil); got != ReportStore(primary) {
		t.Fatal("expected the primary store when no archive is configured")
	}

	archive := &recordingStore{saveErr: errors.New("bucket offline")}
	store := NewMirroredStorage(primary, archive)

	if _, err := store.Save(ctx, CategoryStudents, "care.csv", []byte("x")); err != nil {
		t.Fatalf("archive failure must not fail Save: %v", err)
	}

	archive.delErr = ErrFileNotFound
	if err := store.Delete(ctx, CategoryStudents, "care.csv"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(archive.deleted) != 1 {
		t.Errorf("archive delete not attempted")
	}
}
