// Package controller implements the HTTP client for the campus network
// controller (tenant view).
//
// The client exposes generic list/create/update/delete operations per object
// kind (sites, devices) and hides the controller's wire conventions: the
// X-ACCESS-TOKEN header, paged listing via pageIndex/pageSize, enveloped
// create payloads and the varying response shapes that nest result lists
// under data/list/sites/devices/items.
//
// Authentication is a separate concern: ObtainToken and RevokeToken manage
// the bearer token lifecycle, and the resulting token is handed to NewClient.
// The client itself never refreshes or revokes a token.
package controller
