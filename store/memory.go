package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/models"
)

// Memory backs every store interface with mutex-guarded maps. It exists for
// tests and for running the service without a database; the conditional
// transitions behave exactly like the Mongo single-document updates, so the
// resolution invariants hold under concurrent callers here too.
type Memory struct {
	mu         sync.Mutex
	users      map[primitive.ObjectID]*models.User
	properties map[primitive.ObjectID]*models.Property
	offers     map[primitive.ObjectID]*models.Offer
	wishlist   map[primitive.ObjectID]*models.WishlistItem
	reviews    map[primitive.ObjectID]*models.Review
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[primitive.ObjectID]*models.User),
		properties: make(map[primitive.ObjectID]*models.Property),
		offers:     make(map[primitive.ObjectID]*models.Offer),
		wishlist:   make(map[primitive.ObjectID]*models.WishlistItem),
		reviews:    make(map[primitive.ObjectID]*models.Review),
	}
}

func (m *Memory) Properties() PropertyStore { return &memProperties{m} }
func (m *Memory) Offers() OfferStore        { return &memOffers{m} }
func (m *Memory) Users() UserStore          { return &memUsers{m} }
func (m *Memory) Wishlist() WishlistStore   { return &memWishlist{m} }
func (m *Memory) Reviews() ReviewStore      { return &memReviews{m} }

// memProperties

type memProperties struct{ m *Memory }

var _ PropertyStore = (*memProperties)(nil)

func (s *memProperties) Insert(ctx context.Context, p *models.Property) (primitive.ObjectID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.m.properties[p.ID] = &cp
	return p.ID, nil
}

func (s *memProperties) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return nil, apperr.NotFound("property not found")
	}
	cp := *p
	return &cp, nil
}

func (s *memProperties) List(ctx context.Context) ([]models.Property, error) {
	return s.filter(func(p *models.Property) bool { return true })
}

func (s *memProperties) ListByAgent(ctx context.Context, agentEmail string) ([]models.Property, error) {
	return s.filter(func(p *models.Property) bool { return p.AgentEmail == agentEmail })
}

func (s *memProperties) ListApproved(ctx context.Context) ([]models.Property, error) {
	return s.filter(func(p *models.Property) bool {
		return p.VerificationStatus == models.VerificationApproved
	})
}

func (s *memProperties) ListAdvertised(ctx context.Context, limit int64) ([]models.Property, error) {
	out, err := s.filter(func(p *models.Property) bool {
		return p.Advertised && p.VerificationStatus == models.VerificationApproved
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memProperties) filter(keep func(*models.Property) bool) ([]models.Property, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Property
	for _, p := range s.m.properties {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memProperties) SetVerification(ctx context.Context, id primitive.ObjectID, decision models.VerificationStatus) error {
	if !models.ValidDecision(decision) {
		return apperr.InvalidState("invalid verification status")
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return apperr.NotFound("property not found")
	}
	p.VerificationStatus = decision
	p.UpdatedAt = time.Now()
	return nil
}

func (s *memProperties) SetAdvertised(ctx context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return apperr.NotFound("property not found")
	}
	p.Advertised = true
	p.UpdatedAt = time.Now()
	return nil
}

func (s *memProperties) UpdateFields(ctx context.Context, id primitive.ObjectID, upd models.PropertyUpdate) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return apperr.NotFound("property not found")
	}
	p.Title = upd.Title
	p.Location = upd.Location
	p.BasePrice = upd.BasePrice
	p.MaxPrice = upd.MaxPrice
	p.UpdatedAt = time.Now()
	return nil
}

func (s *memProperties) Delete(ctx context.Context, id primitive.ObjectID, agentEmail string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok || p.AgentEmail != agentEmail {
		return apperr.NotFound("property not found or not owned by caller")
	}
	delete(s.m.properties, id)
	return nil
}

func (s *memProperties) DeleteByAgent(ctx context.Context, agentEmail string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var removed int64
	for id, p := range s.m.properties {
		if p.AgentEmail == agentEmail {
			delete(s.m.properties, id)
			removed++
		}
	}
	return removed, nil
}

func (s *memProperties) ClaimWinner(ctx context.Context, id primitive.ObjectID, offerID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return false, nil
	}
	if p.AcceptedOffer != "" && p.AcceptedOffer != offerID {
		return false, nil
	}
	p.AcceptedOffer = offerID
	p.UpdatedAt = time.Now()
	return true, nil
}

func (s *memProperties) ReleaseWinner(ctx context.Context, id primitive.ObjectID, offerID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok || p.AcceptedOffer != offerID {
		return nil
	}
	p.AcceptedOffer = ""
	p.UpdatedAt = time.Now()
	return nil
}

func (s *memProperties) MarkSold(ctx context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return apperr.NotFound("property not found")
	}
	p.SaleStatus = models.SaleSold
	p.UpdatedAt = time.Now()
	return nil
}

// memOffers

type memOffers struct{ m *Memory }

var _ OfferStore = (*memOffers)(nil)

func (s *memOffers) Insert(ctx context.Context, o *models.Offer) (primitive.ObjectID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	cp := *o
	s.m.offers[o.ID] = &cp
	return o.ID, nil
}

func (s *memOffers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.offers[id]
	if !ok {
		return nil, apperr.NotFound("offer not found")
	}
	cp := *o
	return &cp, nil
}

func (s *memOffers) Exists(ctx context.Context, propertyID, buyerEmail string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, o := range s.m.offers {
		if o.PropertyID == propertyID && o.BuyerEmail == buyerEmail {
			return true, nil
		}
	}
	return false, nil
}

func (s *memOffers) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Offer, error) {
	return s.filter(func(o *models.Offer) bool { return o.BuyerEmail == buyerEmail })
}

func (s *memOffers) ListByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error) {
	return s.filter(func(o *models.Offer) bool { return o.AgentEmail == agentEmail })
}

func (s *memOffers) ListBoughtByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error) {
	return s.filter(func(o *models.Offer) bool {
		return o.AgentEmail == agentEmail && o.Status == models.OfferBought
	})
}

func (s *memOffers) HasBought(ctx context.Context, propertyID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, o := range s.m.offers {
		if o.PropertyID == propertyID && o.Status == models.OfferBought {
			return true, nil
		}
	}
	return false, nil
}

func (s *memOffers) filter(keep func(*models.Offer) bool) ([]models.Offer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Offer
	for _, o := range s.m.offers {
		if keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memOffers) MarkAccepted(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.transition(id, models.OfferPending, models.OfferAccepted, "")
}

func (s *memOffers) MarkRejected(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.transition(id, models.OfferPending, models.OfferRejected, "")
}

func (s *memOffers) MarkBought(ctx context.Context, id primitive.ObjectID, trxID string) (bool, error) {
	return s.transition(id, models.OfferAccepted, models.OfferBought, trxID)
}

func (s *memOffers) transition(id primitive.ObjectID, from, to models.OfferStatus, trxID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.offers[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	if trxID != "" {
		o.TransactionID = trxID
	}
	return true, nil
}

func (s *memOffers) RejectOthers(ctx context.Context, propertyID string, winnerID primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var n int64
	for id, o := range s.m.offers {
		if o.PropertyID == propertyID && id != winnerID && o.Status == models.OfferPending {
			o.Status = models.OfferRejected
			n++
		}
	}
	return n, nil
}

// memUsers

type memUsers struct{ m *Memory }

var _ UserStore = (*memUsers)(nil)

func (s *memUsers) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.m.users[u.ID] = &cp
	return u.ID, nil
}

func (s *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (s *memUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *memUsers) List(ctx context.Context) ([]models.User, error) {
	return s.filter(func(u *models.User) bool { return true })
}

func (s *memUsers) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.filter(func(u *models.User) bool { return u.Role == role })
}

func (s *memUsers) filter(keep func(*models.User) bool) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.User
	for _, u := range s.m.users {
		if keep(u) {
			cp := *u
			cp.Password = ""
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memUsers) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

func (s *memUsers) MarkFraud(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	if u.Role != models.RoleAgent {
		return nil, apperr.InvalidState("only agents can be marked as fraud")
	}
	u.Role = models.RoleFraud
	u.UpdatedAt = time.Now()
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (s *memUsers) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(s.m.users, id)
	return nil
}

// memWishlist

type memWishlist struct{ m *Memory }

var _ WishlistStore = (*memWishlist)(nil)

func (s *memWishlist) Insert(ctx context.Context, item *models.WishlistItem) (primitive.ObjectID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	cp := *item
	s.m.wishlist[item.ID] = &cp
	return item.ID, nil
}

func (s *memWishlist) Exists(ctx context.Context, userEmail, propertyID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, item := range s.m.wishlist {
		if item.UserEmail == userEmail && item.PropertyID == propertyID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memWishlist) ListByUser(ctx context.Context, userEmail string) ([]models.WishlistItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.WishlistItem
	for _, item := range s.m.wishlist {
		if item.UserEmail == userEmail {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memWishlist) Delete(ctx context.Context, id primitive.ObjectID, userEmail string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	item, ok := s.m.wishlist[id]
	if !ok || item.UserEmail != userEmail {
		return apperr.NotFound("wishlist item not found")
	}
	delete(s.m.wishlist, id)
	return nil
}

// memReviews

type memReviews struct{ m *Memory }

var _ ReviewStore = (*memReviews)(nil)

func (s *memReviews) Insert(ctx context.Context, r *models.Review) (primitive.ObjectID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r.ID = primitive.NewObjectID()
	if r.ReviewTime.IsZero() {
		r.ReviewTime = time.Now()
	}
	cp := *r
	s.m.reviews[r.ID] = &cp
	return r.ID, nil
}

func (s *memReviews) ListAll(ctx context.Context) ([]models.Review, error) {
	return s.filter(func(r *models.Review) bool { return true })
}

func (s *memReviews) ListByProperty(ctx context.Context, propertyID string) ([]models.Review, error) {
	return s.filter(func(r *models.Review) bool { return r.PropertyID == propertyID })
}

func (s *memReviews) ListByReviewer(ctx context.Context, email string) ([]models.Review, error) {
	return s.filter(func(r *models.Review) bool { return r.ReviewerEmail == email })
}

func (s *memReviews) filter(keep func(*models.Review) bool) ([]models.Review, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Review
	for _, r := range s.m.reviews {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewTime.After(out[j].ReviewTime) })
	return out, nil
}

func (s *memReviews) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.reviews[id]; !ok {
		return apperr.NotFound("review not found")
	}
	delete(s.m.reviews, id)
	return nil
}
