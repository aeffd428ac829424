package cdpdriver

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"

	"github.com/themizzi/shopcheck/internal/session"
)

const captureScript = `(function () {
  function dump(store) {
    var out = [];
    try {
      for (var i = 0; i < store.length; i++) {
        var key = store.key(i);
        out.push({ name: key, value: store.getItem(key) });
      }
    } catch (e) {}
    return out;
  }
  return { origin: location.origin, localStorage: dump(window.localStorage), sessionStorage: dump(window.sessionStorage) };
})()`

// restoreTemplate seeds storage before any page script runs. Keys the page
// has already written are left alone, since the script runs on every load.
const restoreTemplate = `(function (origins) {
  var o = origins[location.origin];
  if (!o) {
    return;
  }
  function load(store, entries) {
    try {
      (entries || []).forEach(function (e) {
        if (store.getItem(e.name) === null) {
          store.setItem(e.name, e.value);
        }
      });
    } catch (e) {}
  }
  load(window.localStorage, o.localStorage);
  load(window.sessionStorage, o.sessionStorage);
})(%s);`

// restoreScript returns the init script for origins, or "" when there is
// nothing to restore.
func restoreScript(origins []session.Origin) string {
	byOrigin := make(map[string]session.Origin)
	for _, o := range origins {
		if len(o.LocalStorage) == 0 && len(o.SessionStorage) == 0 {
			continue
		}
		byOrigin[o.Origin] = o
	}
	if len(byOrigin) == 0 {
		return ""
	}
	data, err := json.Marshal(byOrigin)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(restoreTemplate, data)
}

// mergeOrigin replaces the entry for o.Origin, or appends it.
func mergeOrigin(origins []session.Origin, o session.Origin) []session.Origin {
	for i := range origins {
		if origins[i].Origin == o.Origin {
			origins[i] = o
			return origins
		}
	}
	return append(origins, o)
}

func toCookieParams(cookies []session.Cookie) []*network.CookieParam {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: network.CookieSameSite(c.SameSite),
		}
		if !c.Session() {
			sec, frac := math.Modf(c.Expires)
			expires := cdp.TimeSinceEpoch(time.Unix(int64(sec), int64(frac*float64(time.Second))))
			p.Expires = &expires
		}
		params = append(params, p)
	}
	return params
}

func fromCookies(cookies []*network.Cookie) []session.Cookie {
	out := make([]session.Cookie, 0, len(cookies))
	for _, c := range cookies {
		cookie := session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		}
		if c.Session {
			cookie.Expires = -1
		}
		out = append(out, cookie)
	}
	return out
}
