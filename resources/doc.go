// Package resources contains functions to prepare paths for test9918
// resources, such as the emulated flash image and the window geometry.
//
// The JoinPath() function returns the correct path to the resource
// directory/file specified in the arguments. It handles the creation of
// directories as required but does not otherwise touch or create files.
//
// For builds with the "release" build tag, the path returned by JoinPath() is
// rooted in the user's configuration directory. On modern Linux systems the
// full path would be something like:
//
//	/home/user/.config/test9918/
//
// For non-"release" builds, the correct path is rooted in the current working
// directory:
//
//	.test9918
//
// # portable.txt
//
// An exception to the above rules is when an empty file named 'portable.txt' is
// in the same directory as the program binary. When the file exists the
// resources are saved in a directory named 'test9918_UserData' in the same
// directory as the program binary.
package resources
