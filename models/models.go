/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package models holds the record types registered by the appdata command.
package models

import (
	"log/slog"

	"github.com/suparena/appdata"
	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/registry"
)

// UserProfile is a person known to the application.
type UserProfile struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name" title:"Full Name" description:"Enter your full name" minLength:"1"`
	Email    string `json:"email" title:"Email" description:"Enter your email address" format:"email"`
	Age      uint32 `json:"age" title:"Age" description:"Enter your age" maximum:"150"`
	IsActive bool   `json:"is_active" title:"Is Active" description:"Whether the user is active"`
}

func (*UserProfile) StoreName() string        { return "UserProfile" }
func (u *UserProfile) Key() appdata.Key       { return u.ID }
func (u *UserProfile) SetKey(k appdata.Key)   { u.ID = k }
func (UserProfile) SchemaDescription() string { return "A person known to the application" }

func (u *UserProfile) Default() {
	*u = UserProfile{ID: 1, Name: "guest", Email: "guest@example.com", IsActive: true}
}

// ProductConfig describes a product offered in the catalogue.
type ProductConfig struct {
	ID       uint32  `json:"id" description:"The product ID"`
	Name     string  `json:"name" title:"Product Name" description:"Enter the product name"`
	Price    float64 `json:"price" title:"Price" description:"Enter the product price" minimum:"0"`
	Category string  `json:"category" title:"Category" description:"Select the product category"`
	InStock  bool    `json:"in_stock" title:"In Stock" description:"Whether the product is in stock"`
}

func (*ProductConfig) StoreName() string        { return "ProductConfig" }
func (p *ProductConfig) Key() appdata.Key       { return p.ID }
func (p *ProductConfig) SetKey(k appdata.Key)   { p.ID = k }
func (ProductConfig) SchemaDescription() string { return "A product offered in the catalogue" }

func (p *ProductConfig) Default() {
	*p = ProductConfig{ID: 1, Name: "starter kit", Price: 88.88, InStock: true}
}

// SystemSettings groups per-installation preferences.
type SystemSettings struct {
	ID          uint32 `json:"id"`
	Theme       string `json:"theme" title:"Theme" description:"Select the application theme"`
	Language    string `json:"language" title:"Language" description:"Select the application language"`
	AutoSave    bool   `json:"auto_save" title:"Auto Save" description:"Enable auto save functionality"`
	MaxFileSize uint32 `json:"max_file_size" title:"Max File Size" description:"Maximum file size in MB" minimum:"1" maximum:"1000"`
}

func (*SystemSettings) StoreName() string        { return "SystemSettings" }
func (s *SystemSettings) Key() appdata.Key       { return s.ID }
func (s *SystemSettings) SetKey(k appdata.Key)   { s.ID = k }
func (SystemSettings) SchemaDescription() string { return "Per-installation preferences" }

func (s *SystemSettings) Default() {
	*s = SystemSettings{Theme: "light", Language: "en", AutoSave: true, MaxFileSize: 10}
}

// Register adds every model to reg over store. It stops at the first
// failure, which is normally a duplicate store name.
func Register(reg *registry.Registry, store datastore.Store, logger *slog.Logger) error {
	opt := appdata.WithLogger(logger)
	if _, err := appdata.Register[UserProfile](reg, store, opt); err != nil {
		return err
	}
	if _, err := appdata.Register[ProductConfig](reg, store, opt); err != nil {
		return err
	}
	if _, err := appdata.Register[SystemSettings](reg, store, opt); err != nil {
		return err
	}
	return nil
}
