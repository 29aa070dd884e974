// Package mocks contains generated GoMock mocks for the port interfaces.
package mocks

//go:generate mockgen -source=../repositories.go -destination=repositories_mock.go -package=mocks
//go:generate mockgen -source=../services.go -destination=services_mock.go -package=mocks
//go:generate mockgen -source=../ledger.go -destination=ledger_mock.go -package=mocks
//go:generate mockgen -source=../health.go -destination=health_mock.go -package=mocks
