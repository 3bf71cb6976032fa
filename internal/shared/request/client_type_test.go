package request_test

import (
	"testing"

	"shiftleave/internal/shared/request"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientType(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		userAgent string
		want      request.ClientType
	}{
		{"header web menang", "web", "okhttp/4.12.0", request.ClientWeb},
		{"header mobile menang", "Mobile", "Mozilla/5.0", request.ClientMobile},
		{"fallback okhttp", "", "okhttp/4.12.0", request.ClientMobile},
		{"fallback dart", "", "Dart/3.3 (dart:io)", request.ClientMobile},
		{"fallback cfnetwork", "", "App/1.0 CFNetwork/1494", request.ClientMobile},
		{"fallback browser", "", "Mozilla/5.0 (Windows NT 10.0)", request.ClientWeb},
		{"header tidak dikenal", "desktop", "okhttp/4.12.0", request.ClientMobile},
		{"kosong semua", "", "", request.ClientWeb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := request.ResolveClientType(tt.header, tt.userAgent)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsWebClient(t *testing.T) {
	assert.True(t, request.IsWebClient(request.ClientWeb))
	assert.False(t, request.IsWebClient(request.ClientMobile))
}
