package model

import (
	"fmt"
	"time"
)

// The concrete entity modules of the application all follow the same
// pattern: a plain struct whose fields live in the document data, plus
// a CollectionSpec declaring reference paths, default populate and
// cache policy. Adding an entity is declaration only; no entity gets
// ad hoc code in the core.

// User is an account able to authenticate against the API.
type User struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

type Country struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

type State struct {
	ID        string       `json:"id,omitempty"`
	Name      string       `json:"name"`
	Country   Ref[Country] `json:"country,omitzero"`
	CreatedAt time.Time    `json:"createdAt,omitzero"`
	UpdatedAt time.Time    `json:"updatedAt,omitzero"`
}

type City struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	State     Ref[State] `json:"state,omitzero"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
	UpdatedAt time.Time  `json:"updatedAt,omitzero"`
}

// Headquarter is one site of an institution.
type Headquarter struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      Ref[City] `json:"city,omitzero"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Area is a functional unit inside a headquarter.
type Area struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Headquarter Ref[Headquarter] `json:"headquarter,omitzero"`
	CreatedAt   time.Time        `json:"createdAt,omitzero"`
	UpdatedAt   time.Time        `json:"updatedAt,omitzero"`
}

// Provider supplies or maintains equipment.
type Provider struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// IPS is a health-care institution owning equipment.
type IPS struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      Ref[City] `json:"city,omitzero"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Curriculum is the life sheet of one piece of equipment.
type Curriculum struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	Brand     string        `json:"brand,omitempty"`
	Model     string        `json:"model,omitempty"`
	Series    string        `json:"series,omitempty"`
	Area      Ref[Area]     `json:"area,omitzero"`
	Provider  Ref[Provider] `json:"provider,omitzero"`
	CreatedAt time.Time     `json:"createdAt,omitzero"`
	UpdatedAt time.Time     `json:"updatedAt,omitzero"`
}

// Cache TTLs per cacheable entity class.
const (
	userCacheTTL       = 300 * time.Second
	providerCacheTTL   = 600 * time.Second
	ipsCacheTTL        = 600 * time.Second
	curriculumCacheTTL = 1800 * time.Second
)

func cachePolicy(namespace, entity string, ttl time.Duration) *CachePolicy {
	return &CachePolicy{
		KeyPattern: fmt.Sprintf("%s:%s:*", namespace, entity),
		TTL:        ttl,
	}
}

// CollectionSpecs declares every entity collection. Cache key patterns
// are namespaced so deployments can share one cache server.
func CollectionSpecs(namespace string) []CollectionSpec {
	return []CollectionSpec{
		{
			Name:  "users",
			Cache: cachePolicy(namespace, "users", userCacheTTL),
		},
		{Name: "countries"},
		{
			Name: "states",
			Refs: map[string]string{"country": "countries"},
		},
		{
			Name: "cities",
			Refs: map[string]string{"state": "states"},
		},
		{
			Name: "headquarters",
			Refs: map[string]string{"city": "cities"},
		},
		{
			Name: "areas",
			Refs: map[string]string{"headquarter": "headquarters"},
			DefaultPopulate: []PopulateSpec{{
				Path: "headquarter",
				Populate: &PopulateSpec{
					Path: "city",
					Populate: &PopulateSpec{
						Path:     "state",
						Populate: &PopulateSpec{Path: "country"},
					},
				},
			}},
		},
		{
			Name:  "providers",
			Cache: cachePolicy(namespace, "providers", providerCacheTTL),
		},
		{
			Name:  "ips",
			Refs:  map[string]string{"city": "cities"},
			Cache: cachePolicy(namespace, "ips", ipsCacheTTL),
		},
		{
			Name: "curriculums",
			Refs: map[string]string{"area": "areas", "provider": "providers"},
			DefaultPopulate: []PopulateSpec{
				{Path: "area"},
				{Path: "provider"},
			},
			Cache: cachePolicy(namespace, "curriculums", curriculumCacheTTL),
		},
	}
}
