package jwc

import (
	"context"
	"encoding/base64"
	"regexp"
	"strconv"

	"bnuportal/lib/scrapers/jwc/kingo"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"
)

// signedPayload is the trusted form of one plaintext parameter string:
// base64 of the Kingo-DES ciphertext, plus a checksum token binding the
// plaintext to a timestamp. Good for exactly one request; the key is
// re-fetched every call because the server checks freshness.
type signedPayload struct {
	Params    string
	Token     string
	Timestamp string
}

var deskeyRegex = regexp.MustCompile(`var _deskey = '(.*)';`)

// signParams fetches a transient key from the key-issuance endpoint and
// derives the payload for one mutating request. A response the key regex
// cannot match is a signing failure, surfaced as ErrMissingKey and never
// retried here.
func (c *Client) signParams(ctx context.Context, params string) (signedPayload, error) {
	ctx, span := tracer.Start(ctx, "client:signParams")
	defer span.End()

	nonce, err := random.IntRange(0, 10000000)
	if err != nil {
		return signedPayload{}, err
	}
	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.base + deskeyPath + strconv.Itoa(nonce))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch encryption key")
		return signedPayload{}, err
	}

	groups := deskeyRegex.FindStringSubmatch(res.String())
	if len(groups) < 2 || groups[1] == "" {
		span.SetStatus(codes.Error, ErrMissingKey.Error())
		return signedPayload{}, ErrMissingKey
	}
	deskey := groups[1]

	timestamp := c.now().Format("2006-01-02 15:04:05")
	token := md5hex(md5hex(params) + md5hex(timestamp))
	ciphertext := base64.StdEncoding.EncodeToString([]byte(kingo.StrEnc(params, deskey)))

	return signedPayload{
		Params:    ciphertext,
		Token:     token,
		Timestamp: timestamp,
	}, nil
}
