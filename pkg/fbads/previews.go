package fbads

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
)

const adsLibraryURL = "https://www.facebook.com/ads/library/?id="

// PreviewLink implements report.ExtrasSource: a best-effort public link to
// one of the campaign's creatives. Returns "" only when the campaign has no
// ads at all; any later failure falls back to the Ads Library link, which is
// stable even when the creative itself is not publicly reachable.
func (c *Client) PreviewLink(ctx context.Context, campaignID string) string {
	adID, err := c.fetchAnyAdID(ctx, campaignID)
	if err != nil || adID == "" {
		if err != nil {
			utils.Log.Debugf("ad lookup for campaign %s: %v", campaignID, err)
		}
		return ""
	}
	if link := c.creativeLink(ctx, adID); link != "" {
		return link
	}
	return adsLibraryURL + adID
}

// fetchAnyAdID returns any ad of the campaign; one is enough for a preview.
func (c *Client) fetchAnyAdID(ctx context.Context, campaignID string) (string, error) {
	params := url.Values{}
	params.Set("fields", "id")
	params.Set("limit", "50")

	body, err := c.get(ctx, campaignID+"/adsets", params)
	if err != nil {
		return "", err
	}
	for _, adset := range gjson.Get(body, "data").Array() {
		adsBody, err := c.get(ctx, adset.Get("id").Str+"/ads", params)
		if err != nil {
			return "", err
		}
		if ads := gjson.Get(adsBody, "data").Array(); len(ads) > 0 {
			return ads[0].Get("id").Str, nil
		}
	}
	return "", nil
}

// creativeLink walks the fallback chain for a stable public creative link:
// Instagram permalink, story post permalink, thumbnail, then the first link
// found in the rendered preview HTML.
func (c *Client) creativeLink(ctx context.Context, adID string) string {
	params := url.Values{}
	params.Set("fields", "creative{instagram_permalink_url,object_story_id,effective_object_story_id,thumbnail_url}")

	body, err := c.get(ctx, adID, params)
	if err != nil {
		utils.Log.Debugf("creative fields for ad %s: %v", adID, err)
		body = ""
	}
	creative := gjson.Get(body, "creative")

	if ig := creative.Get("instagram_permalink_url").Str; ig != "" {
		return ig
	}

	for _, key := range []string{"object_story_id", "effective_object_story_id"} {
		sid := creative.Get(key).Str
		if sid == "" {
			continue
		}
		post, err := c.get(ctx, sid, url.Values{"fields": {"permalink_url"}})
		if err != nil {
			continue
		}
		if u := gjson.Get(post, "permalink_url").Str; u != "" {
			return u
		}
	}

	if thumb := creative.Get("thumbnail_url").Str; thumb != "" {
		return thumb
	}

	preview, err := c.get(ctx, adID+"/previews", url.Values{"ad_format": {"DESKTOP_FEED_STANDARD"}})
	if err == nil {
		items := gjson.Get(preview, "data").Array()
		if len(items) > 0 {
			html := items[0].Get("body").Str
			if html == "" {
				html = items[0].Get("html").Str
			}
			if u := firstLinkInHTML(html); u != "" {
				return u
			}
		}
	}
	return ""
}

// firstLinkInHTML pulls the first https href or src out of a preview body.
func firstLinkInHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var link string
	doc.Find("[href], [src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"href", "src"} {
			if v, ok := s.Attr(attr); ok && strings.HasPrefix(v, "https://") {
				link = v
				return false
			}
		}
		return true
	})
	return link
}
