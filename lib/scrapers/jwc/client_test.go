package jwc

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"bnuportal/lib/scrapers/jwc/extract"
	"bnuportal/lib/scrapers/jwc/kingo"
	"bnuportal/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const testDeskey = "ab12cd34"

const testInfoXml = `<returnData>
	<xn>2015</xn>
	<paramList>
		<xq_m>1</xq_m>
		<nj>2014</nj>
		<xh>201411110101</xh>
		<zydm>0501</zydm>
		<zymc>汉语言文学</zymc>
	</paramList>
</returnData>`

var testInfo = StudentInfo{
	Year:        "2015",
	Semester:    "1",
	Grade:       "2014",
	StudentId:   "201411110101",
	Program:     "0501",
	ProgramName: "汉语言文学",
}

// fakePortal stands in for both the CAS front and the portal itself.
type fakePortal struct {
	loginBody   string
	loginStatus int
	brokenKey   bool
	infoHits    int
	tableBody   string
	lastTable   url.Values
	lastSelect  url.Values
	selectBody  string
}

func newFakePortal(t *testing.T) (*Client, *fakePortal) {
	p := &fakePortal{
		loginStatus: 200,
		selectBody:  `{"status":"200","message":"ok","result":""}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/cas/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<form>
				<input type="hidden" name="lt" value="LT-42">
				<input type="hidden" name="execution" value="e1s1">
			</form>`)
			return
		}
		require.NoError(t, r.ParseForm())
		require.Equal(t, "LT-42", r.PostForm.Get("lt"))
		require.Equal(t, "e1s1", r.PostForm.Get("execution"))
		require.Equal(t, "submit", r.PostForm.Get("_eventId"))
		w.WriteHeader(p.loginStatus)
		fmt.Fprint(w, p.loginBody)
	})
	mux.HandleFunc("/STU_DynamicInitDataAction.do", func(w http.ResponseWriter, r *http.Request) {
		p.infoHits++
		fmt.Fprint(w, testInfoXml)
	})
	mux.HandleFunc("/taglib/DataTable.jsp", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		p.lastTable = r.PostForm
		fmt.Fprint(w, p.tableBody)
	})
	mux.HandleFunc("/custom/js/SetKingoEncypt.jsp", func(w http.ResponseWriter, r *http.Request) {
		if p.brokenKey {
			fmt.Fprint(w, "<html>session expired</html>")
			return
		}
		fmt.Fprintf(w, "var _deskey = '%s';\nvar _t_s_ = new Date().getTime();", testDeskey)
	})
	mux.HandleFunc("/jw/common/saveElectiveCourse.action", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		p.lastSelect = r.PostForm
		fmt.Fprint(w, p.selectBody)
	})
	mux.HandleFunc("/jw/common/cancelElectiveCourse.action", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		p.lastSelect = r.PostForm
		fmt.Fprint(w, p.selectBody)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl: server.URL,
		CasUrl:  server.URL + "/cas/login",
		Now: func() time.Time {
			return time.Date(2016, 1, 4, 8, 0, 0, 0, time.Local)
		},
	})
	require.NoError(t, err)
	return client, p
}

func TestLogin(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/jwc")
	defer cleanup()

	client, _ := newFakePortal(t)
	err := client.Login(context.Background(), "201411110101", "19960101")
	require.NoError(t, err)
}

func TestLoginBadCredentials(t *testing.T) {
	client, portal := newFakePortal(t)
	// the marker arrives with HTTP 200
	portal.loginBody = "<div>用户名密码输入有误。</div>"

	err := client.Login(context.Background(), "201411110101", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
	require.ErrorIs(t, err, ErrLoginFailed)
}

func TestLoginServerError(t *testing.T) {
	client, portal := newFakePortal(t)
	portal.loginStatus = 502

	err := client.Login(context.Background(), "201411110101", "19960101")
	require.ErrorIs(t, err, ErrLoginFailed)
	require.NotErrorIs(t, err, ErrBadCredentials)
}

func TestLegacyLandingWithoutSolver(t *testing.T) {
	client, portal := newFakePortal(t)
	portal.loginBody = "<title>教务网络管理系统</title>"

	err := client.Login(context.Background(), "201411110101", "19960101")
	require.ErrorIs(t, err, ErrCaptchaRequired)
}

func TestParseStudentInfo(t *testing.T) {
	info, err := parseStudentInfo([]byte(testInfoXml))
	require.NoError(t, err)
	require.Equal(t, testInfo, info)
}

func TestStudentInfoCached(t *testing.T) {
	client, portal := newFakePortal(t)
	ctx := context.Background()

	first, err := client.StudentInfo(ctx)
	require.NoError(t, err)
	second, err := client.StudentInfo(ctx)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, portal.infoHits)
}

func TestPlanCourses(t *testing.T) {
	client, portal := newFakePortal(t)
	portal.tableBody = `
		<tr>
			<td name="kc">[01]Algebra</td>
			<td name="kcdm">101</td>
		</tr>
		<tr>
			<td name="kc"></td>
		</tr>`

	got, err := client.PlanCourses(context.Background(), false)
	require.NoError(t, err)

	want := []extract.Record{{"kc": "[01]Algebra", "kcdm": "101"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}

	// identity fields ride along on every listing request
	require.Equal(t, testInfo.StudentId, portal.lastTable.Get("xh"))
	require.Equal(t, testInfo.Grade+"|"+testInfo.Program, portal.lastTable.Get("njzy"))
	require.Equal(t, "on", portal.lastTable.Get("xwxmkc"))
}

func TestSignParams(t *testing.T) {
	client, _ := newFakePortal(t)
	ctx := context.Background()

	payload, err := client.signParams(ctx, "xn=2015&xq=1&xh=201411110101")
	require.NoError(t, err)
	require.Equal(t, "2016-01-04 08:00:00", payload.Timestamp)

	wantToken := md5hex(md5hex("xn=2015&xq=1&xh=201411110101") + md5hex(payload.Timestamp))
	require.Equal(t, wantToken, payload.Token)

	// decoding the base64 must reproduce the exact cipher output
	decoded, err := base64.StdEncoding.DecodeString(payload.Params)
	require.NoError(t, err)
	require.Equal(t, kingo.StrEnc("xn=2015&xq=1&xh=201411110101", testDeskey), string(decoded))
}

func TestSignParamsTimestampBindsToken(t *testing.T) {
	client, _ := newFakePortal(t)
	ctx := context.Background()

	first, err := client.signParams(ctx, "a=1")
	require.NoError(t, err)

	client.now = func() time.Time {
		return time.Date(2016, 1, 4, 8, 0, 1, 0, time.Local)
	}
	second, err := client.signParams(ctx, "a=1")
	require.NoError(t, err)

	require.NotEqual(t, first.Token, second.Token)
	// the cipher depends only on plaintext and key
	require.Equal(t, first.Params, second.Params)
}

func TestSignParamsMissingKey(t *testing.T) {
	client, portal := newFakePortal(t)
	portal.brokenKey = true

	_, err := client.signParams(context.Background(), "a=1")
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestSelectElectiveCourse(t *testing.T) {
	client, portal := newFakePortal(t)
	ctx := context.Background()

	course := extract.Record{
		"kc":     "[02]Film",
		"kcdm":   "202",
		"kclb1":  "11",
		"kclb2":  "22",
		"khfs":   "1",
		"skbjdm": "2021",
		"xf":     "2",
	}
	res, err := client.SelectElectiveCourse(ctx, course)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)

	// the submitted token must bind the exact plaintext that was signed
	plain := electiveSelectionParams(testInfo, course)
	ts := portal.lastSelect.Get("timestamp")
	require.Equal(t, md5hex(md5hex(plain)+md5hex(ts)), portal.lastSelect.Get("token"))
	require.NotEmpty(t, portal.lastSelect.Get("params"))
}

func TestCancelCourse(t *testing.T) {
	client, portal := newFakePortal(t)
	portal.selectBody = `{"status":"400","message":"不在退选时间内","result":""}`

	res, err := client.CancelCourse(context.Background(), extract.Record{
		"kcdm":   "101",
		"skbjdm": "1011",
	})
	require.NoError(t, err)
	require.Equal(t, "400", res.Status)
	require.False(t, res.RateLimited())
	require.False(t, res.SlotFull())
}

func TestActionResultClassification(t *testing.T) {
	require.True(t, ActionResult{Status: "300"}.RateLimited())
	require.False(t, ActionResult{Status: "200"}.RateLimited())
	require.True(t, ActionResult{Status: "400", Message: "选课人数已满"}.SlotFull())
	require.False(t, ActionResult{Status: "400", Message: "时间冲突"}.SlotFull())
}
