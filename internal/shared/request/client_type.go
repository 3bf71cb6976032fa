package request

import "strings"

type ClientType string

const (
	ClientWeb    ClientType = "web"
	ClientMobile ClientType = "mobile"
)

// ResolveClientType menentukan jenis client. Header X-Client-Type menang,
// kalau kosong fallback ke tebakan dari User-Agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case "web":
		return ClientWeb
	case "mobile":
		return ClientMobile
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "okhttp") || strings.Contains(ua, "dart") || strings.Contains(ua, "cfnetwork") {
		return ClientMobile
	}

	return ClientWeb
}

func IsWebClient(ct ClientType) bool {
	return ct == ClientWeb
}
