package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/codequest-edu/codequest/core/curriculum"
	"github.com/codequest-edu/codequest/core/progress"
	"github.com/codequest-edu/codequest/core/user"
	testutil "github.com/codequest-edu/codequest/tests"
)

// seedCurriculum builds one subject with a Beginner difficulty holding
// a three-challenge section and a one-challenge section.
func seedCurriculum(t *testing.T) (curriculum.Subject, curriculum.Difficulty, []curriculum.Section, []curriculum.Challenge) {
	sub := testutil.CreateSubject(t, currRepo, "JavaScript")
	diff := testutil.CreateDifficulty(t, currRepo, sub.ID, curriculum.DifficultyBeginner)
	sec1 := testutil.CreateSection(t, currRepo, diff.ID, "Basics", 1)
	sec2 := testutil.CreateSection(t, currRepo, diff.ID, "Loops", 2)
	ch1 := testutil.CreateChallenge(t, currRepo, sec1.ID, "hello", "console.log('hello')", 1)
	ch2 := testutil.CreateChallenge(t, currRepo, sec1.ID, "add", "a + b", 2)
	ch3 := testutil.CreateChallenge(t, currRepo, sec1.ID, "sub", "a - b", 3)
	ch4 := testutil.CreateChallenge(t, currRepo, sec2.ID, "loop", "for (;;) {}", 1)
	return sub, diff, []curriculum.Section{sec1, sec2}, []curriculum.Challenge{ch1, ch2, ch3, ch4}
}

func Test_attemptApi_submit(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)
	_, _, _, chs := seedCurriculum(t)

	submit := func(t *testing.T, challengeID, code string) (progress.Attempt, int) {
		body := marchallObj(t, progress.NewAttempt{ChallengeID: challengeID, SubmittedCode: code})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attempts", token, body)
		app.ServeHTTP(rec, req)
		var att progress.Attempt
		_ = json.Unmarshal(rec.Body.Bytes(), &att)
		return att, rec.Code
	}

	t.Run("correct submission", func(t *testing.T) {
		att, code := submit(t, chs[0].ID, "console.log('hello')\r\n")
		if code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", code, http.StatusCreated)
		}
		if !att.IsCorrect {
			t.Error("failed! attempt graded incorrect")
		}
		if att.Feedback != "Correct ✅" {
			t.Errorf("failed! feedback = %v", att.Feedback)
		}
		if att.UserID != student.ID {
			t.Errorf("failed! userID = %v; want %v", att.UserID, student.ID)
		}
	})

	t.Run("incorrect submission", func(t *testing.T) {
		att, code := submit(t, chs[0].ID, "console.log('nope')")
		if code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", code, http.StatusCreated)
		}
		if att.IsCorrect {
			t.Error("failed! attempt graded correct")
		}
		if att.Feedback != "Incorrect ❌ (grading is basic for now)" {
			t.Errorf("failed! feedback = %v", att.Feedback)
		}
	})

	t.Run("unknown challenge", func(t *testing.T) {
		_, code := submit(t, "nope", "whatever")
		if code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", code, http.StatusNotFound)
		}
	})

	t.Run("required fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attempts", token, marchallObj(t, progress.NewAttempt{}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})
}

func Test_attemptApi_query(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other01", "other@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)
	_, _, _, chs := seedCurriculum(t)

	now := time.Now().UTC()
	var atts []progress.Attempt
	for i := 0; i < 5; i++ {
		att := testutil.CreateAttempt(t, attRepo, student.ID, chs[0].ID, "x", false, now.Add(time.Duration(i)*time.Minute))
		atts = append(atts, att)
	}
	otherAtt := testutil.CreateAttempt(t, attRepo, other.ID, chs[0].ID, "x", false)

	path := func(page, limit int) string {
		v := make(url.Values)
		if page != 0 {
			v.Add("page", strconv.Itoa(page))
		}
		if limit != 0 {
			v.Add("limit", strconv.Itoa(limit))
		}
		return "/v1/attempts?" + v.Encode()
	}

	t.Run("newest first, own attempts only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path(0, 0), token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var page progress.AttemptPage
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if page.Total != 5 || page.Page != 1 || page.Limit != 20 {
			t.Errorf("failed! page = %+v", page)
		}
		if len(page.Attempts) != 5 || page.Attempts[0].ID != atts[4].ID {
			t.Errorf("failed! attempts = %+v", page.Attempts)
		}
	})

	t.Run("paging", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path(2, 2), token)
		app.ServeHTTP(rec, req)
		var page progress.AttemptPage
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if page.Total != 5 || len(page.Attempts) != 2 {
			t.Fatalf("failed! page = %+v", page)
		}
		if page.Attempts[0].ID != atts[2].ID {
			t.Errorf("failed! attempts[0].ID = %v; want %v", page.Attempts[0].ID, atts[2].ID)
		}
	})

	t.Run("other user's attempt hidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attempts/"+otherAtt.ID, token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_progressApi_overview(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)
	_, _, _, chs := seedCurriculum(t)

	getOverview := func(t *testing.T) progress.Overview {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress/me", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var ov progress.Overview
		if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		return ov
	}

	t.Run("no attempts yet", func(t *testing.T) {
		ov := getOverview(t)
		if ov.TotalAttempts != 0 || ov.TotalCorrect != 0 || ov.Accuracy != 0 || ov.CompletedChallenges != 0 {
			t.Errorf("failed! overview = %+v", ov)
		}
		if ov.CompletedChallengeIDs == nil || len(ov.CompletedChallengeIDs) != 0 {
			t.Errorf("failed! completedChallengeIDs = %v", ov.CompletedChallengeIDs)
		}
		if ov.RecentAttempts == nil || len(ov.RecentAttempts) != 0 {
			t.Errorf("failed! recentAttempts = %v", ov.RecentAttempts)
		}
	})

	now := time.Now().UTC()
	testutil.CreateAttempt(t, attRepo, student.ID, chs[0].ID, "x", false, now)
	testutil.CreateAttempt(t, attRepo, student.ID, chs[0].ID, "y", true, now.Add(time.Minute))
	last := testutil.CreateAttempt(t, attRepo, student.ID, chs[1].ID, "z", true, now.Add(2*time.Minute))

	t.Run("totals and completions", func(t *testing.T) {
		ov := getOverview(t)
		if ov.TotalAttempts != 3 || ov.TotalCorrect != 2 {
			t.Errorf("failed! overview = %+v", ov)
		}
		if ov.Accuracy != 67 { // round(2/3*100)
			t.Errorf("failed! accuracy = %v; want 67", ov.Accuracy)
		}
		if ov.CompletedChallenges != 2 {
			t.Errorf("failed! completedChallenges = %v; want 2", ov.CompletedChallenges)
		}
		if len(ov.RecentAttempts) != 3 || ov.RecentAttempts[0].ID != last.ID {
			t.Errorf("failed! recentAttempts = %+v", ov.RecentAttempts)
		}
	})

	t.Run("orphaned attempts keep counting in totals only", func(t *testing.T) {
		if err := currRepo.DeleteChallengesByID(context.Background(), chs[1].ID); err != nil {
			t.Fatalf("DeleteChallengesByID(): %v", err)
		}
		ov := getOverview(t)
		if ov.TotalAttempts != 3 || ov.TotalCorrect != 2 {
			t.Errorf("failed! overview = %+v", ov)
		}
		if ov.CompletedChallenges != 1 {
			t.Errorf("failed! completedChallenges = %v; want 1", ov.CompletedChallenges)
		}
	})
}

func Test_progressApi_sectionRollups(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)
	_, _, secs, chs := seedCurriculum(t)

	// 1 of 3 in sec1; sec2 untouched
	testutil.CreateAttempt(t, attRepo, student.ID, chs[0].ID, "x", true)

	t.Run("list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress/me/sections", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var stats []progress.SectionStats
		if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(stats) != 2 {
			t.Fatalf("failed! got %d section stats; want 2", len(stats))
		}
		s1 := stats[0]
		if s1.SectionID != secs[0].ID || s1.TotalChallenges != 3 || s1.CompletedChallenges != 1 ||
			s1.RemainingChallenges != 2 || s1.CompletionPercent != 33 || s1.IsFinished {
			t.Errorf("failed! stats[0] = %+v", s1)
		}
	})

	t.Run("detail partitions challenges", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress/me/sections/"+secs[0].ID, token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var detail progress.SectionDetail
		if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(detail.Completed) != 1 || detail.Completed[0].ID != chs[0].ID {
			t.Errorf("failed! completed = %+v", detail.Completed)
		}
		if len(detail.Remaining) != 2 {
			t.Errorf("failed! remaining = %+v", detail.Remaining)
		}
		for _, ch := range append(detail.Completed, detail.Remaining...) {
			if ch.Solution != "" {
				t.Errorf("failed! solution leaked on challenge %v", ch.ID)
			}
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress/me/sections/nope", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_progressApi_subjectRollups(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)
	sub, diff, _, chs := seedCurriculum(t)

	// finish every challenge
	for _, ch := range chs {
		testutil.CreateAttempt(t, attRepo, student.ID, ch.ID, "x", true)
	}

	t.Run("difficulty list rolls sections up", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress/me/difficulties", token)
		app.ServeHTTP(rec, req)
		var stats []progress.DifficultyStats
		if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(stats) != 1 {
			t.Fatalf("failed! got %d difficulty stats; want 1", len(stats))
		}
		ds := stats[0]
		if ds.DifficultyID != diff.ID || ds.TotalSections != 2 || ds.FinishedSections != 2 ||
			ds.TotalChallenges != 4 || ds.CompletedChallenges != 4 || ds.CompletionPercent != 100 || !ds.IsFinished {
			t.Errorf("failed! stats[0] = %+v", ds)
		}
		if ds.SubjectName == nil || *ds.SubjectName != sub.Name {
			t.Errorf("failed! subjectName = %v", ds.SubjectName)
		}
	})

	t.Run("subject detail agrees with list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress/me/subjects/"+sub.ID, token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var detail progress.SubjectDetail
		if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if detail.Totals.CompletedChallenges != 4 || !detail.Totals.IsFinished {
			t.Errorf("failed! totals = %+v", detail.Totals)
		}
		if len(detail.Finished) != 1 || len(detail.Unfinished) != 0 {
			t.Errorf("failed! finished = %v, unfinished = %v", detail.Finished, detail.Unfinished)
		}

		reqL, recL := newAuthRequest(http.MethodGet, "/v1/progress/me/subjects", token)
		app.ServeHTTP(recL, reqL)
		var stats []progress.SubjectStats
		if err := json.Unmarshal(recL.Body.Bytes(), &stats); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(stats) != 1 || stats[0] != detail.Totals {
			t.Errorf("failed! list = %+v; detail totals = %+v", stats, detail.Totals)
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress/me/subjects/nope", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_progressApi_byChallenge(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)
	_, _, _, chs := seedCurriculum(t)

	now := time.Now().UTC()
	testutil.CreateAttempt(t, attRepo, student.ID, chs[0].ID, "x", false, now)
	testutil.CreateAttempt(t, attRepo, student.ID, chs[0].ID, "y", true, now.Add(time.Minute))
	testutil.CreateAttempt(t, attRepo, student.ID, chs[1].ID, "z", false, now.Add(2*time.Minute))

	req, rec := newAuthRequest(http.MethodGet, "/v1/progress/me/by-challenge", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	var bds []progress.ChallengeBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &bds); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if len(bds) != 2 {
		t.Fatalf("failed! got %d breakdowns; want 2", len(bds))
	}
	// most recently attempted challenge first
	if bds[0].ChallengeID != chs[1].ID || bds[0].Attempts != 1 || bds[0].Completed {
		t.Errorf("failed! bds[0] = %+v", bds[0])
	}
	if bds[1].ChallengeID != chs[0].ID || bds[1].Attempts != 2 || bds[1].Correct != 1 || !bds[1].Completed {
		t.Errorf("failed! bds[1] = %+v", bds[1])
	}
}
