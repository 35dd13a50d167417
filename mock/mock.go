// Package mock is used to generate mock files for testing.
package mock

//go:generate mockgen -source ../identity/identity_iface.go -destination mock_identity/mock_identity_iface.go
//go:generate mockgen -source ../authhttp/authhttp_iface.go -destination mock_authhttp/mock_authhttp_iface.go
//go:generate mockgen -package permissions -source ../permissions/permissions_iface.go -destination ../permissions/mock_permissions_iface_test.go
