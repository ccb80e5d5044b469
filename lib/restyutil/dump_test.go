package restyutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestDumpExchanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"path": %q}`, r.URL.Path)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := resty.New()
	DumpExchanges(client, output, func(err error) { t.Error(err) })

	_, err = client.R().SetHeader("Accept", "application/json").Get(srv.URL + "/bills?limit=10")
	require.NoError(t, err)
	_, err = client.R().Get(srv.URL + "/parishes")
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(first), "GET "+srv.URL+"/bills?limit=10")
	require.Contains(t, string(first), "Accept: application/json")
	require.Contains(t, string(first), "200")
	require.Contains(t, string(first), `{"path": "/bills"}`)

	second, err := os.ReadFile(filepath.Join(dir, "2.txt"))
	require.NoError(t, err)
	require.Contains(t, string(second), `{"path": "/parishes"}`)
}
