package service

import (
	"sort"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// stayIndex holds the approved stays of one apartment sorted by
// check-in.  Approved stays never overlap each other, so sorting by
// check-in also sorts them by check-out and a single binary search finds
// the only candidate that can intersect a query.
type stayIndex []model.Stay

// overlapIndex maps apartment id to its approved stays.
type overlapIndex map[uint64]stayIndex

// buildOverlapIndex indexes approved reservations by bound apartment.
// Rows that are not approved or carry no apartment are ignored.
func buildOverlapIndex(approved []model.Reservation) overlapIndex {
	idx := make(overlapIndex)
	for _, r := range approved {
		if r.Status != model.StatusApproved || r.ApartmentID == nil {
			continue
		}
		idx[*r.ApartmentID] = append(idx[*r.ApartmentID], r.Stay())
	}
	for id, stays := range idx {
		sort.Slice(stays, func(i, j int) bool { return stays[i].CheckIn.Before(stays[j].CheckIn) })
		idx[id] = stays
	}
	return idx
}

// busy reports whether apartmentID has an approved stay overlapping s.
func (idx overlapIndex) busy(apartmentID uint64, s model.Stay) bool {
	stays := idx[apartmentID]
	if len(stays) == 0 {
		return false
	}
	// first stay whose check-out is after the query's check-in
	i := sort.Search(len(stays), func(i int) bool { return stays[i].CheckOut.After(s.CheckIn) })
	for ; i < len(stays) && stays[i].CheckIn.Before(s.CheckOut); i++ {
		if stays[i].Overlaps(s) {
			return true
		}
	}
	return false
}
