package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/charbel-francis/saleaf/core/student"
	"github.com/charbel-francis/saleaf/core/user"
	testutil "github.com/charbel-francis/saleaf/tests"
)

// pngContent sniffs as image/png.
var pngContent = append(append([]byte{}, pngMagic...), "fake image payload"...)

func newProfileRequest(t *testing.T, method, path, token string, fields map[string]string, image *filePart) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, value := range fields {
		if err := w.WriteField(field, value); err != nil {
			t.Fatalf("WriteField() failed: %v", err)
		}
	}
	if image != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, image.field, image.filename))
		hdr.Set("Content-Type", image.contentType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("CreatePart() failed: %v", err)
		}
		if _, err = part.Write(image.content); err != nil {
			t.Fatalf("part.Write() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart.Writer.Close() failed: %v", err)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func profileFields() map[string]string {
	return map[string]string{
		"first_name":    "Thabo",
		"last_name":     "Mokoena",
		"bio":           "Second-year computer science student.",
		"institution":   "University of Cape Town",
		"degree":        "BSc Computer Science",
		"year_of_study": "2",
	}
}

func createProfile(t *testing.T, ta *testApp, userID string) student.Profile {
	t.Helper()

	prof, err := ta.studRepo.CreateProfile(context.Background(), student.Profile{
		UserID:      userID,
		FirstName:   "Thabo",
		LastName:    "Mokoena",
		Bio:         "Second-year computer science student.",
		Institution: "University of Cape Town",
		Degree:      "BSc Computer Science",
		YearOfStudy: "2",
	})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return prof
}

func Test_studentApi_create(t *testing.T) {
	ta := setup(t)

	student1 := testutil.CreateUser(t, ta.usrRepo, "Thabo Mokoena", "thabo@test.za", "", []string{user.RoleStudent}, true)
	student1Token := getToken(t, student1)

	reqMsg := "this field is required"
	image := &filePart{field: "image", filename: "me.png", contentType: "image/png", content: pngContent}

	tests := []struct {
		name     string
		token    string
		fields   map[string]string
		image    *filePart
		wantCode int
		wantData []byte
	}{
		{name: "Auth required", fields: profileFields(), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "required fields", token: student1Token, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"first_name": reqMsg, "last_name": reqMsg,
				"institution": reqMsg, "degree": reqMsg, "year_of_study": reqMsg,
			}),
		},
		{
			name: "unsupported image type", token: student1Token, wantCode: http.StatusBadRequest,
			fields: profileFields(),
			image:  &filePart{field: "image", filename: "me.gif", contentType: "image/gif", content: []byte("GIF89a")},
			wantData: marchallObj(t, map[string]string{
				"image": `unsupported file type "image/gif"; only PDF, JPEG and PNG files are accepted`,
			}),
		},
		{name: "created", token: student1Token, fields: profileFields(), image: image, wantCode: http.StatusCreated},
		{
			name: "one profile per user", token: student1Token, fields: profileFields(), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "a profile already exists for this user"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newProfileRequest(t, http.MethodPost, "/api/StudentProfile/create-profile", tt.token, tt.fields, tt.image)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusCreated {
				checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: tt.wantData}, rec)
				return
			}

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var prof student.Profile
			if err := json.Unmarshal(rec.Body.Bytes(), &prof); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			if prof.UserID != student1.ID {
				t.Errorf("UserID = %v; want %v", prof.UserID, student1.ID)
			}
			if prof.FirstName != "Thabo" || prof.Institution != "University of Cape Town" {
				t.Errorf("failed! profile = %+v", prof)
			}
			if prof.ImageFilename != "me.png" || prof.ImageContentType != "image/png" {
				t.Errorf("failed! image metadata = %q %q", prof.ImageFilename, prof.ImageContentType)
			}
		})
	}
}

func Test_studentApi_retrieve(t *testing.T) {
	ta := setup(t)

	student1 := testutil.CreateUser(t, ta.usrRepo, "Thabo Mokoena", "thabo@test.za", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, ta.usrRepo, "Lebo Dlamini", "lebo@test.za", "", []string{user.RoleStudent}, true)

	prof := createProfile(t, ta, student1.ID)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "No profile yet", token: getToken(t, other), wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "Own profile", token: getToken(t, student1), wantCode: http.StatusOK, wantData: marchallObj(t, prof)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/StudentProfile/get-logged-user-profile"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	ta := setup(t)

	student1 := testutil.CreateUser(t, ta.usrRepo, "Thabo Mokoena", "thabo@test.za", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, ta.usrRepo, "Lebo Dlamini", "lebo@test.za", "", []string{user.RoleStudent}, true)

	prof := createProfile(t, ta, student1.ID)
	image := &filePart{field: "image", filename: "me.png", contentType: "image/png", content: pngContent}

	tests := []struct {
		name     string
		token    string
		fields   map[string]string
		image    *filePart
		wantCode int
		wantData []byte
	}{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "No profile yet", token: getToken(t, other), fields: map[string]string{"bio": "hi"},
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "updated", token: getToken(t, student1),
			fields: map[string]string{"year_of_study": "3", "bio": "Now a third-year student."}, image: image,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newProfileRequest(t, http.MethodPut, "/api/StudentProfile/update-profile", tt.token, tt.fields, tt.image)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: tt.wantData}, rec)
				return
			}

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var updated student.Profile
			if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			if updated.YearOfStudy != "3" || updated.Bio != "Now a third-year student." {
				t.Errorf("failed! profile = %+v", updated)
			}
			// untouched fields keep their original values
			if updated.FirstName != prof.FirstName || updated.Institution != prof.Institution {
				t.Errorf("failed! profile = %+v", updated)
			}
			if updated.ImageFilename != "me.png" {
				t.Errorf("ImageFilename = %q; want %q", updated.ImageFilename, "me.png")
			}
		})
	}
}

func Test_studentApi_retrieveImage(t *testing.T) {
	ta := setup(t)

	student1 := testutil.CreateUser(t, ta.usrRepo, "Thabo Mokoena", "thabo@test.za", "", []string{user.RoleStudent}, true)
	noImage := testutil.CreateUser(t, ta.usrRepo, "Lebo Dlamini", "lebo@test.za", "", []string{user.RoleStudent}, true)

	if _, err := ta.studRepo.CreateProfile(context.Background(), student.Profile{
		UserID:           student1.ID,
		FirstName:        "Thabo",
		LastName:         "Mokoena",
		ImageFilename:    "me.png",
		ImageContentType: "image/png",
		Image:            pngContent,
	}); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	createProfile(t, ta, noImage.ID)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "No image", token: getToken(t, noImage), wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "Image served", token: getToken(t, student1), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/StudentProfile/get-profile-image"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
					t.Errorf("Content-Type = %q; want image/png", ct)
				}
				if !bytes.Equal(rec.Body.Bytes(), pngContent) {
					t.Error("failed! body is not the stored image")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
