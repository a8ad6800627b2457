// Package registry holds the closed set of commands the bot answers:
// informational topics, savant profiles, and system commands. The set is
// resolved once at startup so collisions fail fast instead of shadowing
// each other at dispatch time.
package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a command descriptor.
type Kind int

const (
	KindInfo Kind = iota
	KindSavant
	KindSystem
)

// Savant describes a scholar profile answered by its own command.
type Savant struct {
	ID             string
	DisplayName    string
	Description    string
	Location       string
	CourseLocation string
	Channel        string
}

// Descriptor is the resolved form of a command token.
type Descriptor struct {
	Name string
	Kind Kind

	// MessageKey is the catalog key for info commands.
	MessageKey string
	// Savant is set for savant commands.
	Savant *Savant
}

// infoCommands maps command names to catalog message keys.
var infoCommands = map[string]string{
	"fourqanfemme":     "fourqanFemme",
	"diyacoran":        "diyaCoran",
	"raseel":           "raseel",
	"fourqanhomme":     "fourqanHomme",
	"diyahomme":        "diyaHomme",
	"moumarassa":       "moumarassa",
	"hopitaux":         "hospitals",
	"resto_fr":         "restaurants",
	"tout_les_savants": "tout_les_savants",
	"lien_groupe":      "lien_groupe",
}

var savants = []Savant{
	{
		ID:          "raslan",
		DisplayName: "Cheikh Mohamed Said Raslan",
		Location:    "https://maps.app.goo.gl/1z5YfQysnmrtg6397",
	},
	{
		ID:          "adil_sayid",
		DisplayName: "Cheikh Adil Sayid",
		Description: "Tafsir specialist recommended by Cheikh Hassan ibn AbdilWahab Al Banna",
		Location:    "https://maps.app.goo.gl/JRUeHTfyhYPNvQBD6",
		Channel:     "https://t.me/adelelsayd",
	},
	{
		ID:          "khalid_othman_abou_abdil_aala",
		DisplayName: "Cheikh Khalid Othman Abou AbdilAala",
		Description: "Recommended by mashayks of Arabia and Egypt, among them Cheikh Hassan ibn AbdilWahab and Cheikh Zayd al Madkhali",
		Location:    "See the Cheikh's Telegram channel (changes every week)",
		Channel:     "https://t.me/abuabdelaala",
	},
	{
		ID:          "abou_hazim_mohamed_mousni",
		DisplayName: "Cheikh Abou Hazim Mohamed Housni",
		Description: "Recommended by the mashayks of Egypt, notably Cheikh Hassan ibn AbdilWahab",
		Location:    "https://goo.gl/maps/WYxKZJTMZzqmjBYU7",
		Channel:     "https://t.me/abuhazemsalafi",
	},
	{
		ID:             "walid_boughdadi",
		DisplayName:    "Cheikh Walid Boughdadi",
		Description:    "Recommended by Cheikh Hassan and Cheikh Adil Sayid",
		Location:       "https://maps.app.goo.gl/CRCu4gFBYo16t3hi8",
		CourseLocation: "https://maps.app.goo.gl/zq8iFbyrQcjZMprVA?g_st=it",
		Channel:        "https://t.me/waleed_boghdady",
	},
	{
		ID:          "ahmed_said",
		DisplayName: "Cheikh Ahmed Said",
		Description: "Doctor of the hadith faculty at the University of Medina, student of numerous mashayks among them Cheikh Salih Sindi and Cheikh Aly Touwaijiry",
		Location:    "https://maps.app.goo.gl/aysEwLu84C5tH5B38",
		Channel:     "https://t.me/drahmadsaed",
	},
}

// systemCommands are handled by dedicated handlers rather than catalog
// lookups.
var systemCommands = []string{"start", "help", "getid", "reload", "broadcast", "ban"}

// Registry resolves command tokens against the static tables.
type Registry struct {
	descriptors map[string]Descriptor
}

// New builds the registry and verifies that no command name is registered
// twice across the info, savant, and system tables.
func New() (*Registry, error) {
	r := &Registry{descriptors: make(map[string]Descriptor)}

	for name, key := range infoCommands {
		if err := r.add(Descriptor{Name: name, Kind: KindInfo, MessageKey: key}); err != nil {
			return nil, err
		}
	}
	for i := range savants {
		s := &savants[i]
		if err := r.add(Descriptor{Name: s.ID, Kind: KindSavant, Savant: s}); err != nil {
			return nil, err
		}
	}
	for _, name := range systemCommands {
		if err := r.add(Descriptor{Name: name, Kind: KindSystem}); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) add(d Descriptor) error {
	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("command %q registered twice", d.Name)
	}
	r.descriptors[d.Name] = d
	return nil
}

// Resolve maps a command token to its descriptor. A trailing @botname
// qualifier and a leading slash are stripped. Resolution is total: any
// string yields exactly one descriptor or not-found.
func (r *Registry) Resolve(token string) (Descriptor, bool) {
	name := strings.TrimPrefix(token, "/")
	name, _, _ = strings.Cut(name, "@")
	d, ok := r.descriptors[strings.ToLower(name)]
	return d, ok
}

// InfoNames returns the info command names in sorted order, for /help.
func (r *Registry) InfoNames() []string {
	names := make([]string, 0, len(infoCommands))
	for name := range infoCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SavantNames returns the savant command names in declaration order.
func (r *Registry) SavantNames() []string {
	names := make([]string, 0, len(savants))
	for _, s := range savants {
		names = append(names, s.ID)
	}
	return names
}

// FormatSavant renders the private reply for a savant profile.
func FormatSavant(s *Savant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s\n\n", s.DisplayName)

	if s.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Description)
	}

	b.WriteString("📍 Jumuah/course location:\n\n")
	fmt.Fprintf(&b, "%s\n", s.Location)

	if s.CourseLocation != "" {
		fmt.Fprintf(&b, "\nCourses:\n\n%s\n", s.CourseLocation)
	}
	if s.Channel != "" {
		fmt.Fprintf(&b, "\nℹ️ Telegram channel:\n\n%s", s.Channel)
	}

	return b.String()
}
