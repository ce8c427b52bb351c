package cache

import (
	"encoding/json"

	"github.com/zoobzio/forge/httpmsg"
)

type wireResponse struct {
	StatusCode int               `json:"status_code"`
	Header     map[string]string `json:"header"`
	JSON       any               `json:"json"`
}

func encodeResponse(resp *httpmsg.Response) (string, error) {
	w := wireResponse{StatusCode: resp.StatusCode, Header: resp.Header, JSON: resp.JSON}
	b, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeResponse(raw string) (*httpmsg.Response, error) {
	var w wireResponse
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, err
	}
	header := httpmsg.Header{}
	for k, v := range w.Header {
		header.Set(k, v)
	}
	return httpmsg.NewResponse(w.StatusCode, header, w.JSON), nil
}
