// internal/chatbot/links/links_test.go
package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fashionstore-chatbot/internal/common/errors"
)

func TestTableResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		linkName string
		args     []string
		want     string
		wantErr  bool
	}{
		{
			name:     "home",
			linkName: "home",
			want:     "/",
		},
		{
			name:     "product list",
			linkName: "product_list",
			want:     "/products/",
		},
		{
			name:     "product detail with id",
			linkName: "productdetail",
			args:     []string{"42"},
			want:     "/productdetail/42/",
		},
		{
			name:     "contact us",
			linkName: "contactus",
			want:     "/contactus/",
		},
		{
			name:     "unknown destination",
			linkName: "warehouse",
			wantErr:  true,
		},
		{
			name:     "missing required arg",
			linkName: "productdetail",
			wantErr:  true,
		},
		{
			name:     "unexpected arg",
			linkName: "faqs",
			args:     []string{"extra"},
			wantErr:  true,
		},
	}

	r := NewTableResolver("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.linkName, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeLinkResolutionFailed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableResolver_BaseURL(t *testing.T) {
	r := NewTableResolver("https://shop.example.com/")

	got, err := r.Resolve("productdetail", "7")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/productdetail/7/", got)
}
