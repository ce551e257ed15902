// Package jwc is an authenticated client for the BNU educational
// administration portal (zyfw.bnu.edu.cn) and its CAS login front. It
// drives the portal the way the browser frontend does: form-encoded
// posts against a fixed set of endpoints, table fragments parsed by the
// extract state machines, and mutating requests signed with the portal's
// DES token scheme.
package jwc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"bnuportal/lib/scrapers/jwc/extract"
	"bnuportal/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/jwc")

var (
	ErrLoginFailed     = errors.New("failed to login to the portal")
	ErrBadCredentials  = fmt.Errorf("%w: wrong username or password", ErrLoginFailed)
	ErrCaptchaRequired = fmt.Errorf("%w: legacy landing page needs a captcha solver", ErrLoginFailed)
	ErrMissingKey      = errors.New("no encryption key in the portal's key response")
)

const (
	defaultBaseUrl = "http://zyfw.bnu.edu.cn"
	defaultCasUrl  = "http://cas.bnu.edu.cn/cas/login?service=http%3A%2F%2Fzyfw.bnu.edu.cn%2FMainFrm.html"

	studentInfoPath = "/STU_DynamicInitDataAction.do?classPath=com.kingosoft.service.jw.student.pyfa.CourseInfoService&xn=2015&xq_m=1"
	tablePath       = "/taglib/DataTable.jsp?tableId="
	deskeyPath      = "/custom/js/SetKingoEncypt.jsp?random="
	selectPath      = "/jw/common/saveElectiveCourse.action"
	cancelPath      = "/jw/common/cancelElectiveCourse.action"
	scoresPath      = "/xscj.stuckcj_data.jsp"
	examsPath       = "/ksap.kscx_data.jsp"
	evalFormPath    = "/jxpj.pjkcjs_data.jsp"
	evalSubmitPath  = "/jw/common/saveJxpj.action"

	captchaPath     = "/validateCodeAction.do?random="
	legacyLoginPath = "/cas_logon.action"
)

// DataTable.jsp fragment ids for the listing pages.
const (
	planCoursesTable     = "5327018"
	cancelableTable      = "6093"
	electiveCoursesTable = "5327095"
	planSectionsTable    = "6142"
)

// CaptchaSolver turns a fetched captcha image into its solved code. The
// client never decodes or displays images itself; the embedding
// application owns that interaction.
type CaptchaSolver func(ctx context.Context, image []byte) (string, error)

type ClientOptions struct {
	// BaseUrl overrides the portal origin, mainly for tests.
	BaseUrl string
	// CasUrl overrides the CAS login form url, mainly for tests.
	CasUrl string
	// CaptchaSolver is required only when the portal still routes the
	// account through the legacy landing page.
	CaptchaSolver CaptchaSolver
	// Now overrides the signing clock; nil means time.Now.
	Now func() time.Time
}

// Client holds one student's authenticated portal session: cookies,
// cached login handshake tokens and cached identity attributes. It is
// single-owner, nothing here is safe for concurrent use.
type Client struct {
	Http *resty.Client

	base    string
	casUrl  string
	captcha CaptchaSolver
	now     func() time.Time

	lt        string
	execution string
	info      *StudentInfo

	rows extract.RowTable
	grid extract.GridTable
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	base := opts.BaseUrl
	if base == "" {
		base = defaultBaseUrl
	}
	casUrl := opts.CasUrl
	if casUrl == "" {
		casUrl = defaultCasUrl
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("referer", base)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/jwc/http")

	return &Client{
		Http:    client,
		base:    base,
		casUrl:  casUrl,
		captcha: opts.CaptchaSolver,
		now:     now,
	}, nil
}

// Jar exposes the session's cookie jar so the embedding application can
// persist it across runs.
func (c *Client) Jar() http.CookieJar {
	return c.Http.GetClient().Jar
}

// SetJar installs a previously persisted cookie jar.
func (c *Client) SetJar(jar http.CookieJar) {
	c.Http.SetCookieJar(jar)
}
