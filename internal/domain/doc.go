// Package domain defines the core business entities and their validation rules.
package domain
