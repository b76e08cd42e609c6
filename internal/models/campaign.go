package models

type Campaign struct {
	ID            string         `json:"id"`
	ProductName   string         `json:"product_name"`
	OriginalImage string         `json:"original_image"`
	Variants      []Variant      `json:"variants"`
	Status        CampaignStatus `json:"status"`
}

type CampaignStatus string

const (
	CampaignStatusDraft      CampaignStatus = "draft"
	CampaignStatusGenerating CampaignStatus = "generating"
	CampaignStatusReady      CampaignStatus = "ready"
	CampaignStatusDeployed   CampaignStatus = "deployed"
)

// Clone returns a deep copy so callers can hand out snapshots safely.
func (c Campaign) Clone() Campaign {
	out := c
	if c.Variants != nil {
		out.Variants = make([]Variant, len(c.Variants))
		for i, v := range c.Variants {
			out.Variants[i] = v.Clone()
		}
	}
	return out
}

// FindVariant returns the variant with the given id.
func (c Campaign) FindVariant(id string) (Variant, bool) {
	for _, v := range c.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}
