// Package browser opens exhibit links, such as 3D model pages, in the
// visitor's default browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedURL is returned for anything but absolute http(s) links.
var ErrUnsupportedURL = errors.New("browser: only http and https links can be opened")

// start launches a command without waiting for it.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens rawURL in the user's default browser.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrUnsupportedURL
	}
	name, args, err := command(runtime.GOOS, u.String())
	if err != nil {
		return err
	}
	return start(name, args...)
}

func command(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("browser: unsupported OS: %s", goos)
	}
}
