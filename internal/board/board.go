// Package board holds the GPIO implementations the app runs on: the ESP32's own pins under TinyGo, and a
// Raspberry Pi header for bench testing the same buttons from a workstation build.
package board
