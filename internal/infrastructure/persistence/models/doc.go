// Package models contains the GORM persistence models of the storefront.
//
// Domain entities carry no ORM tags. Each model maps one table and converts
// to and from its domain entity with ToDomain / FromDomain.
package models
