// Package discord builds event announcements as Discord webhook embeds and
// posts them.
package discord

import (
	"fmt"
	"strings"

	"github.com/guilherme-santos/calendarposter/internal"
	"github.com/guilherme-santos/calendarposter/internal/attribute"
	"github.com/guilherme-santos/calendarposter/internal/humanize"
)

// AccentColor is the color of every embed.
const AccentColor = 14329120

// Attribute keys read from the event description.
const (
	KeyDescription    = attribute.DescriptionKey
	KeyLocation       = "location"
	KeyAuthorImage    = "author_image"
	KeyThumbnail      = "thumbnail"
	KeyLeads          = "leads"
	KeySignupRequired = "signup_required"
	KeySignupSheet    = "signup_sheet"
	KeyAddons         = "addons"
	KeyRequirements   = "requirements"
	KeySubmitter      = "submitter"
	KeyFooterImage    = "footer_image"
)

// RequiredKeys are checked in this order, the first missing one is reported.
var RequiredKeys = []string{
	KeyDescription,
	KeyLocation,
	KeyAuthorImage,
	KeyThumbnail,
	KeyLeads,
	KeySignupRequired,
	KeyAddons,
	KeyRequirements,
	KeySubmitter,
	KeyFooterImage,
}

type MissingAttributeError struct {
	Key string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("discord: missing attribute %q", e.Key)
}

// Message is the webhook request body.
type Message struct {
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds"`
}

type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url,omitempty"`
	Color       int     `json:"color"`
	Author      Author  `json:"author"`
	Thumbnail   Image   `json:"thumbnail"`
	Fields      []Field `json:"fields"`
	Footer      Footer  `json:"footer"`
}

type Author struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
}

type Image struct {
	URL string `json:"url"`
}

// Field is rendered side by side with its neighbours when Inline is set, on
// its own row otherwise.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type Footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// NewMessage builds the announcement of e from its description attributes.
func NewMessage(e *internal.Event, attrs attribute.Set) (*Message, error) {
	v := make(map[string]string, len(RequiredKeys))
	for _, key := range RequiredKeys {
		value, ok := attrs.Get(key)
		if !ok {
			return nil, &MissingAttributeError{Key: key}
		}
		v[key] = value
	}

	embed := Embed{
		Title:       strings.TrimSpace(e.Summary),
		Description: v[KeyDescription],
		Color:       AccentColor,
		Author: Author{
			Name:    v[KeyLocation],
			IconURL: v[KeyAuthorImage],
		},
		Thumbnail: Image{URL: v[KeyThumbnail]},
		Footer: Footer{
			Text:    v[KeySubmitter],
			IconURL: v[KeyFooterImage],
		},
	}

	embed.addField(leadFieldName(v[KeyLeads]), v[KeyLeads], false)
	embed.addField("Date", humanize.Date(e.StartsAt), true)
	embed.addField("Time", humanize.Time(e.StartsAt), true)
	embed.addField("Req. Signup?", v[KeySignupRequired], true)
	if sheet, ok := attrs.Get(KeySignupSheet); ok {
		embed.addField("Signup Sheet", fmt.Sprintf("[Click Here](%s)", sheet), true)
		embed.URL = sheet
	}
	embed.addField("Req. Addons", v[KeyAddons], true)
	embed.addField("Req. ilvl / Min. DPS", v[KeyRequirements], true)

	return &Message{Embeds: []Embed{embed}}, nil
}

func (e *Embed) addField(name, value string, inline bool) {
	e.Fields = append(e.Fields, Field{Name: name, Value: value, Inline: inline})
}

func leadFieldName(leads string) string {
	if len(strings.Split(leads, ",")) <= 1 {
		return "Lead"
	}
	return "Leads"
}
