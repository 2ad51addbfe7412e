// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package rest

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/netascode/go-tiklink"
	"github.com/netascode/go-tiklink/internal/wire"
	"github.com/tidwall/gjson"
)

// decodeResult converts a successful response body into sentences.
//
// An array yields one reply per object, an object a single done sentence
// (e.g. {"ret":"*1A"} after add), and an empty body no sentence at all.
func decodeResult(body []byte) (*tiklink.Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &tiklink.Result{}, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("invalid JSON response (%d bytes)", len(trimmed))
	}

	root := gjson.ParseBytes(trimmed)
	res := &tiklink.Result{}
	switch {
	case root.IsArray():
		var err error
		root.ForEach(func(_, item gjson.Result) bool {
			if !item.IsObject() {
				err = fmt.Errorf("unexpected %s in response array", item.Type)
				return false
			}
			res.Sentences = append(res.Sentences, tiklink.Sentence{
				Tag:        tiklink.TagReply,
				Attributes: wire.Attributes(item),
			})
			return true
		})
		if err != nil {
			return nil, err
		}
	case root.IsObject():
		res.Sentences = append(res.Sentences, tiklink.Sentence{
			Tag:        tiklink.TagDone,
			Attributes: wire.Attributes(root),
		})
	default:
		res.Sentences = append(res.Sentences, tiklink.Sentence{
			Tag:        tiklink.TagDone,
			Attributes: tiklink.AttributeSet{"ret": root.String()},
		})
	}
	return res, nil
}

// decodeTrap builds the error sentence of a rejected command from the
// device's {"error":..,"message":..,"detail":..} body
func decodeTrap(status int, body []byte) tiklink.AttributeSet {
	trap := tiklink.AttributeSet{"error": strconv.Itoa(status)}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && gjson.ValidBytes(trimmed) {
		root := gjson.ParseBytes(trimmed)
		if root.IsObject() {
			for k, v := range wire.Attributes(root) {
				trap[k] = v
			}
		}
	}

	switch {
	case trap["detail"] != "":
		trap["message"] = trap["detail"]
	case trap["message"] != "":
	default:
		trap["message"] = http.StatusText(status)
	}
	return trap
}
