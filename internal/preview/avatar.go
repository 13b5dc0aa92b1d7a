package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	thumbnailSize   = 100
	maxAvatarBytes  = 5 << 20
	avatarUserAgent = "slider-preview/1.0"
)

var (
	errAvatarURL  = errors.New("avatar url must be absolute http(s)")
	errAvatarHost = errors.New("avatar host is not a public address")
)

// avatarTarget validates an avatar URL. Unless allowPrivate is set, hosts
// that are loopback, private or link-local literals are refused; names are
// checked again at dial time by newAvatarClient.
func avatarTarget(raw string, allowPrivate bool) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, errAvatarURL
	}
	if allowPrivate {
		return u, nil
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return nil, errAvatarHost
	}
	if ip := net.ParseIP(host); ip != nil && !publicIP(ip) {
		return nil, errAvatarHost
	}
	return u, nil
}

func publicIP(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast())
}

// newAvatarClient returns the client used for avatar fetches. Unless
// allowPrivate is set, its dialer refuses non-public addresses after name
// resolution, so redirects and DNS answers can not reach internal hosts.
func newAvatarClient(timeout time.Duration, allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: timeout}
	if !allowPrivate {
		dialer.Control = func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip == nil || !publicIP(ip) {
				return fmt.Errorf("dial %s: %w", address, errAvatarHost)
			}
			return nil
		}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

// fetchAvatar downloads and decodes a remote avatar image.
func fetchAvatar(ctx context.Context, client *http.Client, target *url.URL) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", avatarUserAgent)
	req.Header.Set("Accept", "image/webp,image/png,image/jpeg,image/gif,image/*")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar %s: upstream status %d", target, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxAvatarBytes {
		return nil, fmt.Errorf("avatar %s: larger than %d bytes", target, maxAvatarBytes)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("avatar %s: %w", target, err)
	}
	return img, nil
}

// thumbnail center-crops img to a square and scales it to size x size, the
// same framing object-fit:cover gives the round avatar.
func thumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if side <= 0 {
		return dst
	}
	src := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}

func encodeThumbnail(img image.Image) ([]byte, error) {
	var out bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&out, thumbnail(img, thumbnailSize)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
