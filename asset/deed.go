package asset

import "time"

// Deed is the non-fungible token giving a work its transferable
// identity. The work record itself never tracks an owner; whoever
// holds the deed holds the work.
type Deed struct {
	TokenID   string
	Holder    string
	CreatedAt time.Time
}

func (d *Deed) View(store Store) NonFungible {
	return &deedView{deed: d, store: store}
}

type deedView struct {
	deed  *Deed
	store Store
}

var _ NonFungible = (*deedView)(nil)

func (v *deedView) TokenID() string {
	return v.deed.TokenID
}

func (v *deedView) Holder() (string, error) {
	deed, err := v.store.ReadDeed(v.deed.TokenID)
	if err != nil {
		return "", err
	}
	if deed == nil {
		return "", nil
	}
	return deed.Holder, nil
}

func (v *deedView) Transfer(from, to string) error {
	return v.store.TransferDeed(v.deed.TokenID, from, to)
}
