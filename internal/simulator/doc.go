// Package simulator serves canned V-ZUG appliance responses over HTTP.
//
// A Scenario maps the ai/hh command interface to fixture bodies taken from
// real appliances. The simulator backs the package tests of the appliance
// models and the vzug-sim command, which lets the CLI be exercised without
// hardware:
//
//	vzug-sim --scenario dishwasher-timed --port 8080
//	vzug all --host 127.0.0.1:8080
//
// Unknown commands are answered with status 400 and the same non-JSON body
// real appliances send. WithDigestAuth protects all endpoints with digest
// authentication.
package simulator
