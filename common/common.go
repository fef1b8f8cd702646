package common

var Version = "dev"
