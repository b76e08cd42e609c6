package models

type Variant struct {
	ID          string       `json:"id"`
	Headline    string       `json:"headline"`
	Body        string       `json:"body"`
	CTA         string       `json:"cta"`
	Angle       string       `json:"angle"`
	ImageURL    string       `json:"image_url"`
	Performance *Performance `json:"performance,omitempty"`
}

// Performance is sample data for deployed variants. It is never computed
// by this service.
type Performance struct {
	Views       int     `json:"views"`
	Engagement  int     `json:"engagement"`
	Conversions int     `json:"conversions"`
	CTR         float64 `json:"ctr"`
}

func (v Variant) Clone() Variant {
	if v.Performance != nil {
		p := *v.Performance
		v.Performance = &p
	}
	return v
}

// Summary is the dashboard header: revenue, reach and campaign count.
type Summary struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalViews      int     `json:"total_views"`
	TotalEngagement int     `json:"total_engagement"`
	ActiveCampaigns int     `json:"active_campaigns"`
}
