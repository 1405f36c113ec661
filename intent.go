// Copyright 2026 The Transit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transit

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"transit.dev/transit/route"
)

// DecodeIntent decodes a JSON navigation intent into an Action. Intents
// arrive from clients as either a URL form:
//
//	{"url": "/user/42?tab=posts"}
//
// or an action form, discriminated by "type":
//
//	{"type": "USER", "params": {"id": "42"}, "query": {"tab": "posts"}}
//
// CALL_HISTORY intents carry their payload inline:
//
//	{"type": "CALL_HISTORY", "payload": {"method": "back"}}
func (s *Store) DecodeIntent(data []byte) (*Action, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON intent", ErrInvalidAction)
	}

	if u := gjson.GetBytes(data, "url"); u.Exists() {
		return s.URLToAction(u.String()), nil
	}

	t := gjson.GetBytes(data, "type")
	if !t.Exists() || t.String() == "" {
		return nil, fmt.Errorf("%w: intent missing type and url", ErrInvalidAction)
	}

	a := &Action{
		Type:     t.String(),
		Params:   stringMap(gjson.GetBytes(data, "params")),
		Query:    stringMap(gjson.GetBytes(data, "query")),
		Hash:     gjson.GetBytes(data, "hash").String(),
		Basename: gjson.GetBytes(data, "basename").String(),
	}

	if p := gjson.GetBytes(data, "payload"); p.Exists() {
		switch a.Type {
		case route.TypeCallHistory:
			a.Payload = HistoryCall{
				Method: p.Get("method").String(),
				URL:    p.Get("url").String(),
				Delta:  int(p.Get("delta").Int()),
			}
		case route.TypeChangeBasename:
			a.Payload = p.String()
		default:
			a.Payload = p.Value()
		}
	}
	return a, nil
}

// DispatchBytes decodes a JSON intent and dispatches it.
func (s *Store) DispatchBytes(ctx context.Context, data []byte) (*Action, error) {
	a, err := s.DecodeIntent(data)
	if err != nil {
		return nil, err
	}
	return s.Dispatch(ctx, a)
}

// stringMap flattens a JSON object of scalars to a string map.
func stringMap(res gjson.Result) map[string]string {
	if !res.Exists() || !res.IsObject() {
		return nil
	}
	out := make(map[string]string)
	res.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}
