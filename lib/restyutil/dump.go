// Package restyutil records the raw HTTP exchanges of a resty client, for
// debugging what the data API actually returned.
package restyutil

import (
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string) error
}

// DumpExchanges writes every response client receives to output, numbered
// in the order they arrive. Failed writes are passed to onError, which may
// be nil.
func DumpExchanges(client *resty.Client, output Output, onError func(error)) {
	var counter atomic.Uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(counter.Add(1), 10)
		err := output.Write(id, formatExchange(res))
		if err != nil && onError != nil {
			onError(err)
		}
		return nil
	})
}
