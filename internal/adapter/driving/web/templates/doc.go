// Package templates holds the layout components shared by every page.
package templates
