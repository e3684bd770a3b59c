package database

var ReadMigrations = readMigrations
