package echoapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/gradecalc/apps/api/echo"
	logsvc "github.com/trezcool/gradecalc/services/logger"
)

func setup() Server {
	return NewServer(
		&Options{
			TestMode:       true,
			DisableReqLogs: true,
			Logger:         logsvc.NewNopLogger(),
		},
	)
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     string
	wantCode int
	wantData string
}

func newRequest(method, path, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func runTests(t *testing.T, app Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantData != "" {
				assert.JSONEq(t, tt.wantData, rec.Body.String())
			}
		})
	}
}

func TestHome(t *testing.T) {
	app := setup()
	req, rec := newRequest(http.MethodGet, "/", "")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Grade Calculator API!", rec.Body.String())
}

func TestScale(t *testing.T) {
	app := setup()
	req, rec := newRequest(http.MethodGet, "/v1/scale", "")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []struct {
		Min    float64 `json:"min"`
		GWA    string  `json:"gwa"`
		Remark string  `json:"remark"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 10)
	assert.Equal(t, "1.00", rows[0].GWA)
	assert.Equal(t, 97.5, rows[0].Min)
	assert.Equal(t, "5.00", rows[9].GWA)
	assert.Equal(t, "Failed", rows[9].Remark)
}

func TestClassify(t *testing.T) {
	runTests(t, setup(), []httpTest{
		{
			name:     "very good",
			method:   http.MethodGet,
			path:     "/v1/classify?percentage=95",
			wantCode: http.StatusOK,
			wantData: `{"percentage":95,"remark":"Very Good","gwa":"1.25","colorTag":"success"}`,
		},
		{
			name:     "lower bound of fair",
			method:   http.MethodGet,
			path:     "/v1/classify?percentage=59.5",
			wantCode: http.StatusOK,
			wantData: `{"percentage":59.5,"remark":"Fair","gwa":"3.00","colorTag":"info"}`,
		},
		{
			name:     "gap between rows",
			method:   http.MethodGet,
			path:     "/v1/classify?percentage=97.495",
			wantCode: http.StatusOK,
			wantData: `{"percentage":97.495,"remark":"Very Good","gwa":"1.25","colorTag":"success"}`,
		},
		{
			name:     "trailing slash",
			method:   http.MethodGet,
			path:     "/v1/classify/?percentage=40",
			wantCode: http.StatusOK,
			wantData: `{"percentage":40,"remark":"Failed","gwa":"5.00","colorTag":"error"}`,
		},
		{
			name:     "missing percentage",
			method:   http.MethodGet,
			path:     "/v1/classify",
			wantCode: http.StatusBadRequest,
			wantData: `{"percentage":"this field is required"}`,
		},
		{
			name:     "non numeric percentage",
			method:   http.MethodGet,
			path:     "/v1/classify?percentage=abc",
			wantCode: http.StatusBadRequest,
			wantData: `{"percentage":"percentage must be a number"}`,
		},
	})
}

func TestFinalGrade(t *testing.T) {
	runTests(t, setup(), []httpTest{
		{
			name:     "numbers and strings",
			method:   http.MethodPost,
			path:     "/v1/final-grade",
			body:     `{"prelims":80,"midterm":"75","prefinals":70,"finals":80}`,
			wantCode: http.StatusOK,
			wantData: `{"finalGrade":"77.00","remark":"Satisfactory","gwa":"2.25","colorTag":"warning"}`,
		},
		{
			name:     "perfect",
			method:   http.MethodPost,
			path:     "/v1/final-grade",
			body:     `{"prelims":100,"midterm":100,"prefinals":100,"finals":100}`,
			wantCode: http.StatusOK,
			wantData: `{"finalGrade":"100.00","remark":"Excellent","gwa":"1.00","colorTag":"success"}`,
		},
		{
			name:     "missing grades",
			method:   http.MethodPost,
			path:     "/v1/final-grade",
			body:     `{"prelims":"80","midterm":"","prefinals":null,"finals":80}`,
			wantCode: http.StatusBadRequest,
			wantData: `{"midterm":"this field is required","prefinals":"this field is required"}`,
		},
		{
			name:     "out of range",
			method:   http.MethodPost,
			path:     "/v1/final-grade",
			body:     `{"prelims":80,"midterm":75,"prefinals":70,"finals":120}`,
			wantCode: http.StatusBadRequest,
			wantData: `{"finals":"grade must be between 0 and 100"}`,
		},
		{
			name:     "empty body",
			method:   http.MethodPost,
			path:     "/v1/final-grade",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "wrong type",
			method:   http.MethodPost,
			path:     "/v1/final-grade",
			body:     `{"prelims":true,"midterm":75,"prefinals":70,"finals":80}`,
			wantCode: http.StatusBadRequest,
			wantData: `{"error":"grades must be numbers or strings"}`,
		},
		{
			name:     "malformed json",
			method:   http.MethodPost,
			path:     "/v1/final-grade",
			body:     `{"prelims":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "wrong method",
			method:   http.MethodGet,
			path:     "/v1/final-grade",
			wantCode: http.StatusMethodNotAllowed,
			wantData: `{"error":"Method Not Allowed"}`,
		},
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/v1/nope",
			wantCode: http.StatusNotFound,
			wantData: `{"error":"Not Found"}`,
		},
	})
}

func TestEvaluateGWA(t *testing.T) {
	honors := `{"subjects":[{"name":"Math","units":3,"grade":1.25},{"name":"Physics","units":3,"grade":1.75}],
		"goal":{"targetGWA":1.75},"prevAchieved":%s}`
	honorsSummary := `{"gwa":1.5,"totalUnits":6,"remark":"Very Good","colorTag":"success","status":"Honor Student",
		"deansListEligible":true,"presidentsListEligible":true}`
	honorsProgress := `{"targetGWA":1.75,"currentGWA":1.5,"percentage":100,"achieved":true,"remaining":0,"requiredAverage":1.85}`

	runTests(t, setup(), []httpTest{
		{
			name:     "goal newly achieved",
			method:   http.MethodPost,
			path:     "/v1/gwa",
			body:     fmt.Sprintf(honors, "false"),
			wantCode: http.StatusOK,
			wantData: `{"summary":` + honorsSummary + `,"totalUnits":6,"progress":` + honorsProgress +
				`,"achieved":true,"newlyAchieved":true}`,
		},
		{
			name:     "goal already achieved",
			method:   http.MethodPost,
			path:     "/v1/gwa",
			body:     fmt.Sprintf(honors, "true"),
			wantCode: http.StatusOK,
			wantData: `{"summary":` + honorsSummary + `,"totalUnits":6,"progress":` + honorsProgress +
				`,"achieved":true,"newlyAchieved":false}`,
		},
		{
			name:     "goal in progress",
			method:   http.MethodPost,
			path:     "/v1/gwa",
			body:     `{"subjects":[{"name":"History","units":3,"grade":2.5}],"goal":{"targetGWA":1.75}}`,
			wantCode: http.StatusOK,
			wantData: `{"summary":{"gwa":2.5,"totalUnits":3,"remark":"Satisfactory","colorTag":"warning","status":"Passed",
				"deansListEligible":false,"presidentsListEligible":false},"totalUnits":3,
				"progress":{"targetGWA":1.75,"currentGWA":2.5,"percentage":76.9,"achieved":false,"remaining":0.75,"requiredAverage":1.6},
				"achieved":false,"newlyAchieved":false}`,
		},
		{
			name:     "failing subject",
			method:   http.MethodPost,
			path:     "/v1/gwa",
			body:     `{"subjects":[{"name":"Math","units":3,"grade":1.0},{"name":"Art","units":1,"grade":5.0}]}`,
			wantCode: http.StatusOK,
			wantData: `{"summary":{"gwa":2,"totalUnits":4,"remark":"Satisfactory","colorTag":"warning","status":"Failed",
				"deansListEligible":false,"presidentsListEligible":false},"totalUnits":4,
				"progress":null,"achieved":false,"newlyAchieved":false}`,
		},
		{
			name:     "no subjects",
			method:   http.MethodPost,
			path:     "/v1/gwa",
			body:     `{"subjects":[],"goal":{"targetGWA":2},"prevAchieved":true}`,
			wantCode: http.StatusOK,
			wantData: `{"summary":null,"totalUnits":0,"progress":null,"achieved":false,"newlyAchieved":false}`,
		},
	})
}

func TestEvaluateGWA_Invalid(t *testing.T) {
	app := setup()
	body := `{"subjects":[{"name":"Math","units":3,"grade":1.25},{"name":"  ","units":0,"grade":1.3}],"goal":{"targetGWA":6}}`
	req, rec := newRequest(http.MethodPost, "/v1/gwa", body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"subjects[1].name", "subjects[1].units", "subjects[1].grade", "goal.targetGWA"}, keys)
	assert.Contains(t, fields["subjects[1].grade"], "1.00, 1.25")
}
