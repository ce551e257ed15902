package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"bnuportal/lib/restyutil"
	"bnuportal/lib/scrapers/jwc"
	"bnuportal/lib/serviceutil"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	line = strings.TrimSpace(line)
	if line != "" {
		return line, nil
	}
	return "", err
}

// credentials come from .env (PORTAL_USERNAME / PORTAL_PASSWORD) with an
// interactive fallback, password read without echo.
func loadCredentials() (string, string) {
	_ = godotenv.Load()

	username := os.Getenv("PORTAL_USERNAME")
	password := os.Getenv("PORTAL_PASSWORD")

	if username == "" {
		var err error
		username, err = readLine("student id: ")
		if err != nil {
			serviceutil.Fatal("failed to read student id", err)
		}
	}
	if password == "" {
		fmt.Print("password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			serviceutil.Fatal("failed to read password", err)
		}
		password = string(raw)
	}
	return username, password
}

// promptCaptcha is the captcha seam for the legacy login path: the image
// is written to a temp file for the user to open, the solved code read
// from stdin.
func promptCaptcha(ctx context.Context, image []byte) (string, error) {
	f, err := os.CreateTemp("", "bnuportal-captcha-*.jpg")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(image); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return readLine(fmt.Sprintf("captcha saved to %s\ncaptcha code: ", f.Name()))
}

func createClient(ctx context.Context) *jwc.Client {
	username, password := loadCredentials()

	client, err := jwc.NewClient(ctx, jwc.ClientOptions{
		CaptchaSolver: promptCaptcha,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize portal client", err)
	}
	if *debugHttp {
		restyutil.InstrumentClient(client.Http, restyutil.NewFilesystemOutput(".dev/resty/jwc"))
	}

	if err := client.Login(ctx, username, password); err != nil {
		serviceutil.Fatal("failed to login to the portal", err)
	}
	return client
}
