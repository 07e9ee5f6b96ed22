package res

// AboutContent contains the Markdown content for the About dialog.
// This is maintained separately for easy updates.
const AboutContent = `An ambient companion for whatever is playing, built with Go and Fyne.

**Features:**
- Colour themes extracted from the current album artwork
- Six procedural visualizers that follow tempo and energy
- Live palette readout over HTTP and websockets
- Theme from any image or tagged audio file
`
