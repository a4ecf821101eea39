package jupiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchByMints(t *testing.T) {
	t.Run("parses batch response", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("query")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id":"MintA","name":"Alpha","symbol":"ALP","usdPrice":0.5,"mcap":100000,"bondingCurve":42.5,"stats24h":{"priceChange":-3.1,"buyVolume":1234.5}},
				{"id":"MintB","name":"Beta","symbol":"BET","usdPrice":1.25,"mcap":9000,"bondingCurve":7,"stats24h":{"priceChange":0.4,"buyVolume":10}}
			]`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		tokens, err := client.SearchByMints(context.Background(), []string{"MintA", "MintB"})
		require.NoError(t, err)
		assert.Equal(t, "MintA,MintB", gotQuery)
		require.Len(t, tokens, 2)
		assert.Equal(t, "MintA", tokens[0].ID)
		assert.Equal(t, 0.5, tokens[0].UsdPrice)
		assert.Equal(t, 42.5, tokens[0].BondingCurve)
		assert.Equal(t, -3.1, tokens[0].Stats24h.PriceChange)
		assert.Equal(t, 1234.5, tokens[0].Stats24h.BuyVolume)
	})

	t.Run("empty mint list short-circuits", func(t *testing.T) {
		client := NewClient("http://invalid.localhost")
		tokens, err := client.SearchByMints(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, tokens)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		_, err := client.SearchByMints(context.Background(), []string{"MintA"})
		assert.Error(t, err)
	})
}
