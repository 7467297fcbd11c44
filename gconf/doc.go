/*
Package gconf keeps one configuration object per extension in the state,
under the extension name.

InitConfig copies the object from the "conf" section of the genesis file.
Afterwards only an UpdateConfigurationMsg signed by the owner recorded in the
object changes it. Zero fields of the patch keep their value.

Extensions cannot work without their configuration, so a missing object is
reported as ErrNotFound and never replaced by defaults at runtime.
*/
package gconf
