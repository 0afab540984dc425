/*
Package arranger contains the data model for the tahti arrangement editor
and the command system that mutates it.

The package defines the Model struct, which holds the project being edited
(the tracks, regions and notes), the current selection, the clipboard and
the undo/redo history. The Model is owned by a single goroutine; everything
else communicates with it by sending MsgToModel messages through the Broker.

Edits never modify the project directly. Every edit is a Command, a
single-use object that knows how to apply itself to the model and how to
undo itself exactly. Commands run through Model.Execute, which records them
in the History, so any sequence of successful edits can be walked backwards
and forwards again. A command that fails is not recorded and leaves the
project as it was.

The collaborating subsystems stay behind narrow interfaces: the audio
engine behind tahti.AudioInterface and the user interface behind
tahti.UIStore. Both are best effort, meaning the model reports their
failures as alerts but never fails an edit because of them.
*/
package arranger
