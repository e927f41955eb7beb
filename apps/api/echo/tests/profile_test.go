package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codequest-edu/codequest/core/user"
	testutil "github.com/codequest-edu/codequest/tests"
)

func Test_profileApi_create(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other01", "other@test.cd", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{
			name: "Auth required", body: marchallObj(t, user.NewProfile{FirstName: "Kal", LastName: "El"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "required fields", body: marchallObj(t, user.NewProfile{}), token: studentToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"first_name": "this field is required",
				"last_name":  "this field is required",
			}),
		},
		{
			name: "unknown gender", token: studentToken,
			body:     marchallObj(t, user.NewProfile{FirstName: "Kal", LastName: "El", Gender: "kryptonian"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"gender": "gender must be one of [male female other prefer_not_to_say]",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/profiles", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("profile created", func(t *testing.T) {
		data := marchallObj(t, user.NewProfile{
			FirstName: "Kal",
			LastName:  "El",
			Username:  "superhero",
			DOB:       "2000-04-18",
			Gender:    user.GenderMale,
			Bio:       "Last son of Krypton",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/profiles", studentToken, data)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		var profile user.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		assert.NotEmpty(t, profile.ID)
		assert.Equal(t, student.ID, profile.UserID)
		assert.Equal(t, "Kal", profile.FirstName)
		assert.Equal(t, "superhero", profile.Username)
		assert.Equal(t, "2000-04-18", profile.DOB)
	})

	t.Run("one profile per user", func(t *testing.T) {
		data := marchallObj(t, user.NewProfile{FirstName: "Kal", LastName: "El"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/profiles", studentToken, data)
		app.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "profile already exists for this user"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("username taken", func(t *testing.T) {
		data := marchallObj(t, user.NewProfile{FirstName: "Bruce", LastName: "Wayne", Username: "superhero"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/profiles", getToken(t, other), data)
		app.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "a user with this username already exists"}),
		}
		checkCodeAndData(t, tt, rec)
	})
}

func Test_profileApi_retrieve(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other01", "other@test.cd", "", []string{user.RoleStudent}, true)
	profile := testutil.CreateProfile(t, usrRepo, student.ID, "Kal", "El")
	studentToken := getToken(t, student)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/profiles/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "no profile yet", path: "/v1/profiles/me", token: getToken(t, other),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "profile not found"}),
		},
		{name: "own profile", path: "/v1/profiles/me", token: studentToken, wantData: marchallObj(t, profile)},
		{name: "by user id", path: "/v1/profiles/" + student.ID, token: getToken(t, other), wantData: marchallObj(t, profile)},
		{
			name: "unknown user id", path: "/v1/profiles/404", token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "profile not found"}),
		},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_profileApi_update(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other01", "other@test.cd", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	testutil.CreateProfile(t, usrRepo, student.ID, "Kal", "El")

	update := func(t *testing.T, token, userID string, up user.UpdateProfile) *httptest.ResponseRecorder {
		req, rec := newAuthRequest(http.MethodPut, "/v1/profiles/"+userID, token, marchallObj(t, up))
		app.ServeHTTP(rec, req)
		return rec
	}

	t.Run("owner only", func(t *testing.T) {
		rec := update(t, getToken(t, other), student.ID, user.UpdateProfile{Bio: "impostor"})
		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("owner updates; untouched fields survive", func(t *testing.T) {
		rec := update(t, getToken(t, student), student.ID, user.UpdateProfile{Bio: "Last son of Krypton"})
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var profile user.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		assert.Equal(t, "Last son of Krypton", profile.Bio)
		assert.Equal(t, "Kal", profile.FirstName)
		assert.Equal(t, "El", profile.LastName)
	})

	t.Run("admin updates any", func(t *testing.T) {
		rec := update(t, getToken(t, admin), student.ID, user.UpdateProfile{FirstName: "Clark"})
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var profile user.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		assert.Equal(t, "Clark", profile.FirstName)
	})

	t.Run("no profile to update", func(t *testing.T) {
		rec := update(t, getToken(t, admin), other.ID, user.UpdateProfile{Bio: "nope"})
		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "profile not found"}),
		}
		checkCodeAndData(t, tt, rec)
	})
}
