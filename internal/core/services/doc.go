// Package services implements the driving port interfaces: the vendor
// catalogue, typed settings and the activity history.
//
// Services depend only on the domain, the ports and connector constants.
package services
