// Package render defines the semantic render requests the access-control
// core hands to the presentation layer. Requests carry only structured data
// (counts, labels, flags); wording, markup and button layout belong to the
// presenter.
package render

import "github.com/tbourn/go-access-bot/internal/domain"

// Kind selects what the presentation layer should show.
type Kind string

const (
	KindNone           Kind = "none"
	KindAuthorizedHome Kind = "authorized_home"
	KindDenied         Kind = "denied"
	KindHelp           Kind = "help"
	KindAdminHome      Kind = "admin_home"
	KindStats          Kind = "stats"
	KindList           Kind = "list"
	KindPrompt         Kind = "prompt"
	KindResult         Kind = "result"
	KindAdminDenied    Kind = "admin_denied"
	KindClosed         Kind = "closed"
)

// Op is the allow-list mutation a prompt or result refers to.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Reason explains a failed Result.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNotFound         Reason = "not_found"
	ReasonInvalidInput     Reason = "invalid_input"
	ReasonStoreUnavailable Reason = "store_unavailable"
)

// Home is the payload of KindAuthorizedHome.
type Home struct {
	AppURL string `json:"app_url"`
}

// Stats is the payload of KindAdminHome and KindStats. Unavailable is set
// when the counts could not be read and are reported as zero.
type Stats struct {
	Total        int64 `json:"total"`
	Authorized   int64 `json:"authorized"`
	Unauthorized int64 `json:"unauthorized"`
	Unavailable  bool  `json:"unavailable,omitempty"`
}

// Entry is one row of a List.
type Entry struct {
	Identifier  int64  `json:"identifier"`
	Handle      string `json:"handle,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// List is the payload of KindList. Overflow counts authorized principals
// beyond the displayed entries. Unavailable is set when the allow-list could
// not be read, so an empty Entries does not mean an empty allow-list.
type List struct {
	Entries     []Entry `json:"entries"`
	Overflow    int64   `json:"overflow"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// Prompt is the payload of KindPrompt.
type Prompt struct {
	Op Op `json:"op"`
}

// Result is the payload of KindResult.
type Result struct {
	Op      Op     `json:"op"`
	Success bool   `json:"success"`
	Label   string `json:"label,omitempty"`
	Reason  Reason `json:"reason,omitempty"`
}

// Request is one render call. Exactly the payload matching Kind is set.
type Request struct {
	Kind   Kind    `json:"kind"`
	Locale string  `json:"locale,omitempty"`
	Home   *Home   `json:"home,omitempty"`
	Stats  *Stats  `json:"stats,omitempty"`
	List   *List   `json:"list,omitempty"`
	Prompt *Prompt `json:"prompt,omitempty"`
	Result *Result `json:"result,omitempty"`
}

// WithLocale returns r tagged with the caller's language code.
func (r Request) WithLocale(locale string) Request {
	r.Locale = locale
	return r
}

func None() Request        { return Request{Kind: KindNone} }
func Denied() Request      { return Request{Kind: KindDenied} }
func Help() Request        { return Request{Kind: KindHelp} }
func AdminDenied() Request { return Request{Kind: KindAdminDenied} }
func Closed() Request      { return Request{Kind: KindClosed} }
func AuthorizedHome(appURL string) Request {
	return Request{Kind: KindAuthorizedHome, Home: &Home{AppURL: appURL}}
}
func PromptFor(op Op) Request { return Request{Kind: KindPrompt, Prompt: &Prompt{Op: op}} }
func Success(op Op, label string) Request {
	return Request{Kind: KindResult, Result: &Result{Op: op, Success: true, Label: label}}
}
func Failure(op Op, reason Reason) Request {
	return Request{Kind: KindResult, Result: &Result{Op: op, Reason: reason}}
}

// AdminHome renders the console landing screen with counts.
func AdminHome(s domain.Stats, available bool) Request {
	return Request{Kind: KindAdminHome, Stats: statsPayload(s, available)}
}

// StatsView renders the detailed statistics screen.
func StatsView(s domain.Stats, available bool) Request {
	return Request{Kind: KindStats, Stats: statsPayload(s, available)}
}

// ListView renders authorized principals plus the number not shown.
func ListView(ps []domain.Principal, overflow int64) Request {
	entries := make([]Entry, 0, len(ps))
	for _, p := range ps {
		e := Entry{Identifier: p.ID}
		if p.Handle != nil {
			e.Handle = *p.Handle
		}
		if p.DisplayName != nil {
			e.DisplayName = *p.DisplayName
		}
		entries = append(entries, e)
	}
	if overflow < 0 {
		overflow = 0
	}
	return Request{Kind: KindList, List: &List{Entries: entries, Overflow: overflow}}
}

// ListUnavailable renders the list screen when the allow-list could not be
// read.
func ListUnavailable() Request {
	return Request{Kind: KindList, List: &List{Entries: []Entry{}, Unavailable: true}}
}

func statsPayload(s domain.Stats, available bool) *Stats {
	return &Stats{
		Total:        s.TotalPrincipals,
		Authorized:   s.AuthorizedCount,
		Unauthorized: s.Unauthorized(),
		Unavailable:  !available,
	}
}
