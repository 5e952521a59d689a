package generator

import (
	"math/rand"

	"github.com/eventhub/datagen/internal/models"
)

// Rule tables for mechanical fields. These mirror the published dataset
// profile: Bay Area venues, category-bounded capacities and price bands, and
// declared mixture policies for sampled upstream references.

var producerBatchSizes = map[models.EntityType]int{
	models.EntityUsers:      50,
	models.EntityVenues:     10,
	models.EntityEvents:     20,
	models.EntityKBArticles: 5,
	models.EntityTickets:    25,
}

type intRange struct {
	min, max int
}

func (r intRange) sample(rng *rand.Rand) int {
	return r.min + rng.Intn(r.max-r.min+1)
}

// capacityRanges bounds venue capacity per category.
var capacityRanges = map[models.VenueCategory]intRange{
	models.CategoryMusic:      {200, 2000},
	models.CategoryTheater:    {100, 900},
	models.CategoryComedy:     {50, 300},
	models.CategoryArt:        {30, 250},
	models.CategorySports:     {1000, 8000},
	models.CategoryConference: {100, 1200},
	models.CategoryMuseum:     {50, 600},
}

type priceBand struct {
	min, max float64
}

// priceBands bounds event ticket prices per category.
var priceBands = map[models.VenueCategory]priceBand{
	models.CategoryMusic:      {25, 150},
	models.CategoryTheater:    {30, 120},
	models.CategoryComedy:     {15, 60},
	models.CategoryArt:        {10, 40},
	models.CategorySports:     {20, 200},
	models.CategoryConference: {50, 400},
	models.CategoryMuseum:     {10, 35},
}

var venueCategories = []models.VenueCategory{
	models.CategoryMusic,
	models.CategoryTheater,
	models.CategoryComedy,
	models.CategoryArt,
	models.CategorySports,
	models.CategoryConference,
	models.CategoryMuseum,
}

type cityArea struct {
	city          string
	state         string
	neighborhoods []string
}

var bayAreaCities = []cityArea{
	{"San Francisco", "CA", []string{"Mission District", "SoMa", "North Beach", "Hayes Valley", "Richmond"}},
	{"Oakland", "CA", []string{"Downtown", "Temescal", "Jack London Square"}},
	{"Berkeley", "CA", []string{"Downtown", "Southside"}},
	{"San Jose", "CA", []string{"Downtown", "Willow Glen"}},
	{"Palo Alto", "CA", []string{"University South", "Midtown"}},
}

var ticketCategories = []models.TicketCategory{
	models.TicketGeneral,
	models.TicketRefund,
	models.TicketTechnical,
	models.TicketComplaint,
	models.TicketCancellation,
}

var articleCategories = []models.ArticleCategory{
	models.ArticleHowTo,
	models.ArticleTroubleshooting,
	models.ArticlePolicy,
	models.ArticleFAQ,
	models.ArticleGeneral,
}

var paymentMethods = []models.PaymentMethod{
	models.PaymentCreditCard,
	models.PaymentPayPal,
	models.PaymentApplePay,
	models.PaymentGooglePay,
}

// weighted picks by integer weights summing to 100.
type weighted[T any] struct {
	value  T
	weight int
}

func pickWeighted[T any](rng *rand.Rand, choices []weighted[T]) T {
	total := 0
	for _, c := range choices {
		total += c.weight
	}
	n := rng.Intn(total)
	for _, c := range choices {
		if n < c.weight {
			return c.value
		}
		n -= c.weight
	}
	return choices[len(choices)-1].value
}

var tierMix = []weighted[models.SubscriptionTier]{
	{models.TierBasic, 70},
	{models.TierPremium, 30},
}

var subscriptionStatusMix = []weighted[models.SubscriptionStatus]{
	{models.SubscriptionActive, 80},
	{models.SubscriptionCancelled, 12},
	{models.SubscriptionPaused, 8},
}

var reservationStatusMix = []weighted[models.ReservationStatus]{
	{models.ReservationConfirmed, 85},
	{models.ReservationPending, 5},
	{models.ReservationCancelled, 10},
}

var ticketStatusMix = []weighted[models.TicketStatus]{
	{models.TicketOpen, 30},
	{models.TicketInProgress, 20},
	{models.TicketResolved, 40},
	{models.TicketEscalated, 10},
}

var ticketPriorityMix = []weighted[models.TicketPriority]{
	{models.PriorityLow, 30},
	{models.PriorityMedium, 40},
	{models.PriorityHigh, 20},
	{models.PriorityUrgent, 10},
}

// subjectBucket classifies reservation subjects for the declared mixture
// policy: 80% active-subscription users, 15% inactive, 5% blocked.
type subjectBucket int

const (
	subjectActive subjectBucket = iota
	subjectInactive
	subjectBlocked
)

var reservationSubjectMix = []weighted[subjectBucket]{
	{subjectActive, 80},
	{subjectInactive, 15},
	{subjectBlocked, 5},
}

// subjectSampler applies the mixture policy over a loaded user collection.
// Buckets are built once per batch; an empty bucket falls back to the whole
// collection so the policy degrades rather than stalls.
type subjectSampler struct {
	all     []models.User
	buckets map[subjectBucket][]models.User
}

func newSubjectSampler(users []models.User) *subjectSampler {
	s := &subjectSampler{all: users, buckets: make(map[subjectBucket][]models.User)}
	for _, u := range users {
		switch {
		case u.IsBlocked:
			s.buckets[subjectBlocked] = append(s.buckets[subjectBlocked], u)
		case u.SubscriptionStatus == models.SubscriptionActive:
			s.buckets[subjectActive] = append(s.buckets[subjectActive], u)
		default:
			s.buckets[subjectInactive] = append(s.buckets[subjectInactive], u)
		}
	}
	return s
}

func (s *subjectSampler) sample(rng *rand.Rand) models.User {
	bucket := s.buckets[pickWeighted(rng, reservationSubjectMix)]
	if len(bucket) == 0 {
		bucket = s.all
	}
	return bucket[rng.Intn(len(bucket))]
}
