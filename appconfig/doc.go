/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package appconfig holds the live application configuration.
//
// The configuration is an ordinary entity stored at a fixed key. A Cell
// loads it once with Init, publishes it through an atomic pointer and
// republishes every successful Save. Readers call Current and never block.
// A save is written and flushed before it becomes visible, and observers
// registered with Watch run afterwards, in registration order.
package appconfig
