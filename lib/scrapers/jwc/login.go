package jwc

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"
)

// badCredentialMarker is the literal error text CAS renders back into the
// login form on a wrong username/password. It can arrive with HTTP 200.
const badCredentialMarker = "用户名密码输入有误"

// legacyLandingMarker shows up when an account is still routed through
// the portal's pre-CAS frameset, which requires the captcha side-login.
const legacyLandingMarker = "教务网络管理系统"

// loginParams scrapes the lt/execution handshake tokens from the CAS
// login form. Cached for the session lifetime once both are non-empty.
func (c *Client) loginParams(ctx context.Context) error {
	if c.lt != "" && c.execution != "" {
		return nil
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.casUrl)
	if err != nil {
		return err
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("%w: login page returned status %d", ErrLoginFailed, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return err
	}
	c.lt = doc.Find(`input[name=lt]`).AttrOr("value", "")
	c.execution = doc.Find(`input[name=execution]`).AttrOr("value", "")
	return nil
}

// Login authenticates the session. A response carrying the bad-credential
// marker fails regardless of HTTP status; a non-200 status without the
// marker fails with the status as reason. If the portal still routes the
// account through the legacy landing page, the captcha side-login runs
// before the session counts as authenticated.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	if err := c.loginParams(ctx); err != nil {
		span.SetStatus(codes.Error, "failed to fetch login params")
		return err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username":  username,
			"password":  password,
			"code":      "code",
			"lt":        c.lt,
			"execution": c.execution,
			"_eventId":  "submit",
		}).
		Post(c.casUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login request failed")
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	body := res.String()
	if strings.Contains(body, badCredentialMarker) {
		span.SetStatus(codes.Error, ErrBadCredentials.Error())
		return ErrBadCredentials
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, "non-200 login response")
		return fmt.Errorf("%w: portal returned status %d", ErrLoginFailed, res.StatusCode())
	}

	if strings.Contains(body, legacyLandingMarker) {
		return c.legacyLogin(ctx, username, password)
	}
	return nil
}

// legacyLogin solves the old landing page: fetch a captcha, hand it to
// the caller's solver and submit the derived double-md5 password to the
// legacy logon endpoint.
func (c *Client) legacyLogin(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:legacyLogin")
	defer span.End()

	if c.captcha == nil {
		span.SetStatus(codes.Error, ErrCaptchaRequired.Error())
		return ErrCaptchaRequired
	}

	nonce, err := random.IntRange(0, 10000000)
	if err != nil {
		return err
	}
	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.base + captchaPath + strconv.Itoa(nonce))
	if err != nil {
		return fmt.Errorf("%w: fetching captcha: %v", ErrLoginFailed, err)
	}

	code, err := c.captcha(ctx, res.Body())
	if err != nil {
		return fmt.Errorf("%w: captcha solver: %v", ErrLoginFailed, err)
	}

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"WebUserNO": username,
			"Password":  md5hex(md5hex(password) + code),
			"Agnomen":   code,
		}).
		Post(c.base + legacyLoginPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if strings.Contains(res.String(), badCredentialMarker) {
		return ErrBadCredentials
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("%w: legacy logon returned status %d", ErrLoginFailed, res.StatusCode())
	}
	return nil
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
