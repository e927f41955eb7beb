package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/codequest-edu/codequest/core/curriculum"
	"github.com/codequest-edu/codequest/core/user"
	testutil "github.com/codequest-edu/codequest/tests"
)

func Test_curriculumApi_subjects(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach01", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	studentToken := getToken(t, student)
	teacherToken := getToken(t, teacher)

	sub1 := testutil.CreateSubject(t, currRepo, "JavaScript")
	sub2 := testutil.CreateSubject(t, currRepo, "Python")

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/subjects", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Students can list", method: http.MethodGet, path: "/v1/subjects", token: studentToken,
			wantCode: http.StatusOK, wantData: marchallList(t, sub1, sub2),
		},
		{
			name: "Students cannot create", method: http.MethodPost, path: "/v1/subjects", token: studentToken,
			body:     marchallObj(t, curriculum.NewSubject{Name: "Go"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Name required", method: http.MethodPost, path: "/v1/subjects", token: teacherToken,
			body:     marchallObj(t, curriculum.NewSubject{}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name: "Retrieve", method: http.MethodGet, path: "/v1/subjects/" + sub1.ID, token: studentToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, sub1),
		},
		{
			name: "Retrieve unknown", method: http.MethodGet, path: "/v1/subjects/nope", token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "subject not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Teachers can create", func(t *testing.T) {
		body := marchallObj(t, curriculum.NewSubject{Name: "Go", Description: "The Go programming language"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/subjects", teacherToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		var sub curriculum.Subject
		if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if sub.ID == "" || sub.Name != "Go" {
			t.Errorf("failed! subject = %+v", sub)
		}
	})
}

func Test_curriculumApi_difficulties(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach01", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	teacherToken := getToken(t, teacher)

	sub := testutil.CreateSubject(t, currRepo, "JavaScript")
	beg := testutil.CreateDifficulty(t, currRepo, sub.ID, curriculum.DifficultyBeginner)
	adv := testutil.CreateDifficulty(t, currRepo, sub.ID, curriculum.DifficultyAdvanced)

	tests := []httpTest{
		{
			name: "List in creation order", method: http.MethodGet, path: "/v1/subjects/" + sub.ID + "/difficulties", token: teacherToken,
			wantCode: http.StatusOK, wantData: marchallList(t, beg, adv),
		},
		{
			name: "Unknown subject", method: http.MethodGet, path: "/v1/subjects/nope/difficulties", token: teacherToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "subject not found"}),
		},
		{
			name: "Name must be on the scale", method: http.MethodPost, path: "/v1/difficulties", token: teacherToken,
			body:     marchallObj(t, curriculum.NewDifficulty{SubjectID: sub.ID, Name: "Expert"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "name must be one of [Beginner Intermediate Advanced]"}),
		},
		{
			name: "Unknown parent subject", method: http.MethodPost, path: "/v1/difficulties", token: teacherToken,
			body:     marchallObj(t, curriculum.NewDifficulty{SubjectID: "nope", Name: curriculum.DifficultyBeginner}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "subject not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_curriculumApi_sectionOrdering(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach01", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	teacherToken := getToken(t, teacher)

	sub := testutil.CreateSubject(t, currRepo, "JavaScript")
	diff := testutil.CreateDifficulty(t, currRepo, sub.ID, curriculum.DifficultyBeginner)

	// secB created first; same order as secC so creation order breaks the tie
	secB := testutil.CreateSection(t, currRepo, diff.ID, "Variables", 2)
	secC := testutil.CreateSection(t, currRepo, diff.ID, "Functions", 2)
	secA := testutil.CreateSection(t, currRepo, diff.ID, "Basics", 1)

	req, rec := newAuthRequest(http.MethodGet, "/v1/difficulties/"+diff.ID+"/sections", teacherToken)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	var secs []curriculum.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &secs); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	wantIDs := []string{secA.ID, secB.ID, secC.ID}
	if len(secs) != len(wantIDs) {
		t.Fatalf("failed! got %d sections; want %d", len(secs), len(wantIDs))
	}
	for i, want := range wantIDs {
		if secs[i].ID != want {
			t.Errorf("failed! secs[%d].ID = %v; want %v", i, secs[i].ID, want)
		}
	}
}

func Test_curriculumApi_challengeSolutionHidden(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach01", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	sub := testutil.CreateSubject(t, currRepo, "JavaScript")
	diff := testutil.CreateDifficulty(t, currRepo, sub.ID, curriculum.DifficultyBeginner)
	sec := testutil.CreateSection(t, currRepo, diff.ID, "Basics", 1)
	ch := testutil.CreateChallenge(t, currRepo, sec.ID, "hello", "console.log('hello')", 1)

	get := func(t *testing.T, token string) curriculum.Challenge {
		req, rec := newAuthRequest(http.MethodGet, "/v1/challenges/"+ch.ID, token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var got curriculum.Challenge
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		return got
	}

	t.Run("hidden from students", func(t *testing.T) {
		if got := get(t, getToken(t, student)); got.Solution != "" {
			t.Errorf("failed! solution leaked: %v", got.Solution)
		}
	})
	t.Run("visible to teachers", func(t *testing.T) {
		if got := get(t, getToken(t, teacher)); got.Solution != ch.Solution {
			t.Errorf("failed! solution = %v; want %v", got.Solution, ch.Solution)
		}
	})
}
