/*
Package utils provides decorators shared by every application stack: panic
recovery, transaction logging, savepoints isolating the writes of a single
transaction and tags describing what a transaction touched.
*/
package utils
