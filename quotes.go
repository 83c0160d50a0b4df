package tradebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

// QuoteFeed is a PriceProvider backed by a remote JSON document of
// quotes. Each lookup fetches the document and extracts the symbol's
// price with a JSONPath expression, e.g. for a feed shaped like
//
//	{"quotes": {"AAPL": {"last": 170.0}, "TSLA": {"last": 250.0}}}
//
// the default path template "$.quotes.%s.last" applies. Extraction
// failures and unknown symbols both yield the zero sentinel.
type QuoteFeed struct {
	URL      string       // endpoint returning the quote document
	Path     string       // JSONPath template; %s is replaced by the upper-cased symbol
	Currency string       // currency the feed quotes in
	Client   *http.Client // defaults to http.DefaultClient
}

// DefaultQuotePath is the JSONPath template used when Path is empty.
const DefaultQuotePath = "$.quotes.%s.last"

func (f *QuoteFeed) Price(symbol string) Money {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	var jobj any
	if err := jwget(client, f.URL, &jobj); err != nil {
		log.Printf("quote feed: %v", err)
		return M(0, f.Currency)
	}

	tmpl := f.Path
	if tmpl == "" {
		tmpl = DefaultQuotePath
	}
	path := fmt.Sprintf(tmpl, normalize(symbol))
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		// No entry for this symbol in the document.
		return M(0, f.Currency)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case float64:
		return M(v, f.Currency)
	case string:
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("quote feed: %q at %q is not a number", v, path)
			return M(0, f.Currency)
		}
		return M(val, f.Currency)
	default:
		log.Printf("quote feed: %q yields %v, not a number", path, jval)
		return M(0, f.Currency)
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
