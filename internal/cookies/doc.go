// Package cookies moves session cookies between the artsy cookie store and
// browser cookie stores. It reads Firefox (moz_cookies SQLite), Chrome
// (cookies SQLite, unencrypted values only) and Netscape text files, and
// writes Netscape text files.
//
// Cookie values never appear in errors or logs; only names and domains do.
package cookies
